package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// deduplicator 記錄最近的 POST 請求指紋
type deduplicator struct {
	window time.Duration
	mu     sync.Mutex
	seen   map[string]time.Time
	sweep  time.Time
}

func newDeduplicator(window time.Duration) *deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &deduplicator{
		window: window,
		seen:   make(map[string]time.Time),
		sweep:  time.Now(),
	}
}

// admit 同一指紋在時間窗內第二次出現時回傳 false
func (d *deduplicator) admit(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	// 每隔十個時間窗清掉舊指紋
	if now.Sub(d.sweep) > 10*d.window {
		for k, t := range d.seen {
			if now.Sub(t) > d.window {
				delete(d.seen, k)
			}
		}
		d.sweep = now
	}

	if last, ok := d.seen[fingerprint]; ok && now.Sub(last) <= d.window {
		return false
	}
	d.seen[fingerprint] = now
	return true
}

// fingerprint 由來源 IP、路徑與請求體雜湊組成
func fingerprint(c *gin.Context, body []byte) string {
	sum := sha256.Sum256(body)
	return c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(sum[:])
}

// Deduplication 拒絕時間窗內重複送出的相同 POST 請求
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	var window time.Duration
	if cfg != nil {
		window = cfg.DedupWindow
	}
	d := newDeduplicator(window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				abortTooLarge(c, mbe.Limit, c.Request.ContentLength)
				return
			}
			common.LogWarn("Failed to read request body", zap.Error(err))
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !d.admit(fingerprint(c, body), time.Now()) {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.ErrTooManyRequests.Response("Request too frequent"))
			return
		}

		c.Next()
	}
}
