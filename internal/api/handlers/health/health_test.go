package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-finder/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

type fixedCatalog int

func (f fixedCatalog) CatalogSize() int { return int(f) }

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		size   int
		status int
	}{
		{"ready", 8, http.StatusOK},
		{"empty catalog", 0, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&config.Config{}, fixedCatalog(tt.size), nil, nil)
			r := gin.New()
			r.GET("/ready", h.ReadinessCheck)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestHealthCheckWithoutOptionalParts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&config.Config{App: config.AppConfig{Version: "1.2.3"}}, fixedCatalog(3), nil, nil)
	r := gin.New()
	r.GET("/health", h.HealthCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["version"] != "1.2.3" || resp["catalog_size"].(float64) != 3 {
		t.Fatalf("unexpected response %v", resp)
	}
	if _, ok := resp["cache"]; ok {
		t.Fatal("cache stats should be omitted when cache is disabled")
	}
	if _, ok := resp["queue"]; ok {
		t.Fatal("queue status should be omitted without a queue")
	}
}
