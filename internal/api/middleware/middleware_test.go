package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Fatal("fourth request should be limited")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow() {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow() {
		t.Fatal("second request should be limited")
	}

	time.Sleep(40 * time.Millisecond)
	if !rl.Allow() {
		t.Fatal("token should be refilled after the window")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "3600" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
}

func TestDeduplication(t *testing.T) {
	r := gin.New()
	r.Use(Deduplication(&config.Config{DedupWindow: time.Minute}))
	r.POST("/echo", func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.String(http.StatusOK, string(body))
	})
	r.GET("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body)))
		return w
	}

	w := post(`{"n": "dedup-1"}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"n": "dedup-1"}` {
		t.Fatalf("first request: %d %q", w.Code, w.Body.String())
	}
	if w := post(`{"n": "dedup-1"}`); w.Code != http.StatusTooManyRequests {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	if w := post(`{"n": "dedup-2"}`); w.Code != http.StatusOK {
		t.Fatalf("different body status = %d", w.Code)
	}

	// GET 不去重
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET status = %d", w.Code)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too large")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBodySizeLimitUnknownLength(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			if !common.IsBodyTooLarge(err) {
				t.Errorf("unexpected read error %v", err)
			}
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"within limit", "small", http.StatusOK},
		{"over limit", "this body is too large", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", io.MultiReader(strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestDeduplicationOversizedBody(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8), Deduplication(&config.Config{DedupWindow: time.Minute}))
	r.POST("/", func(c *gin.Context) {
		t.Error("handler should not run for an oversized body")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.MultiReader(strings.NewReader("this body is too large")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), common.ErrCodeTooLarge) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Logger())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestDeduplicatorWindow(t *testing.T) {
	d := newDeduplicator(time.Second)
	now := time.Now()

	if !d.admit("fp", now) {
		t.Fatal("first request should be admitted")
	}
	if d.admit("fp", now.Add(500*time.Millisecond)) {
		t.Fatal("repeat inside the window should be rejected")
	}
	if !d.admit("fp", now.Add(2*time.Second)) {
		t.Fatal("repeat after the window should be admitted")
	}

	// 超過十個時間窗後清除舊指紋
	d.admit("old", now.Add(2*time.Second))
	d.admit("new", now.Add(30*time.Second))
	if _, ok := d.seen["old"]; ok {
		t.Fatal("stale fingerprint should be swept")
	}
}
