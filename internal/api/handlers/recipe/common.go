package recipe

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// invalidTimeFilter 無法解析的時間條件，不會符合任何食譜
const invalidTimeFilter = -1

// parseTimeFilter 解析 timeFilter，接受數字或數字字串
func parseTimeFilter(v interface{}) int {
	switch t := v.(type) {
	case nil:
		return recipeService.AnyTime
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return invalidTimeFilter
		}
		return int(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
			return invalidTimeFilter
		}
		return int(n)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return recipeService.AnyTime
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return invalidTimeFilter
		}
		return n
	default:
		return invalidTimeFilter
	}
}

// writeError 依錯誤類型寫入錯誤響應
func writeError(c *gin.Context, err error, message string) {
	var recErr *recipeService.RecognitionError
	if errors.As(err, &recErr) {
		resp := common.ErrRecognitionUnavailable.Response(gin.H{
			"upstream_status": recErr.Status,
			"detail":          recErr.Detail,
		})
		c.AbortWithStatusJSON(common.ErrRecognitionUnavailable.Status, resp)
		return
	}

	ce := common.AsCustomError(err)
	resp := ce.Response(nil)
	if message != "" {
		resp.Details = message
	} else if ce.Err != nil && ce.Status < 500 {
		resp.Details = ce.Err.Error()
	}
	c.AbortWithStatusJSON(ce.Status, resp)
}

// bindRequest 解析 JSON 請求體，失敗時寫入錯誤響應並回傳 false
//
// 未宣告長度的請求體超過大小限制時回報 413，而非格式錯誤。
func bindRequest(c *gin.Context, v interface{}) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	if common.IsBodyTooLarge(err) {
		common.LogWarn("請求體過大",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		writeError(c, common.ErrRequestTooLarge.Wrap(err), "")
		return false
	}

	common.LogWarn("請求格式無效",
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
	)
	writeError(c, common.ErrInvalidRequest.Wrap(err), "Invalid request format")
	return false
}
