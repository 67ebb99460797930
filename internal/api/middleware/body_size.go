package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/pkg/common"
)

// BodySizeLimit 限制請求體大小
//
// 已宣告 Content-Length 的請求直接以 413 拒絕；未宣告長度（chunked）的請求
// 在讀取超過 maxSize 時失敗，讀取端以 common.IsBodyTooLarge 辨識並回報 413。
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			abortTooLarge(c, maxSize, c.Request.ContentLength)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// abortTooLarge 記錄並以 413 結束請求，declared 為 -1 表示長度未知
func abortTooLarge(c *gin.Context, maxSize, declared int64) {
	common.LogWarn("請求體過大",
		zap.Int64("content_length", declared),
		zap.Int64("max_size", maxSize),
		zap.String("ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(common.ErrRequestTooLarge.Status, common.ErrRequestTooLarge.Response(gin.H{
		"max_size": maxSize,
	}))
}
