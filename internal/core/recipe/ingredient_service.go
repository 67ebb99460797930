package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// labelCacheKind 識別標籤的快取類型
const labelCacheKind = "labels"

// IngredientService 食材識別服務
type IngredientService struct {
	recognizer Recognizer
	cache      LabelCache
	images     ImagePreparer
	threshold  float64
}

// NewIngredientService 創建新的食材識別服務，cache 可為 nil
func NewIngredientService(recognizer Recognizer, cache LabelCache, images ImagePreparer, threshold float64) *IngredientService {
	return &IngredientService{
		recognizer: recognizer,
		cache:      cache,
		images:     images,
		threshold:  threshold,
	}
}

// Identify 識別圖片中的食材名稱
//
// 回傳的名稱保留識別服務的大小寫，使用前需經過 Normalize。
// 識別服務失敗時回傳 ErrRecognitionUnavailable，不會以空列表代替。
func (s *IngredientService) Identify(ctx context.Context, imageData string) ([]string, error) {
	requestID := common.RequestIDFrom(ctx)

	// 驗證圖片
	payload, err := s.images.Prepare(imageData)
	if err != nil {
		return nil, err
	}

	// 檢查快取；門檻在快取之後才套用
	if labels, ok := s.cachedLabels(ctx, payload); ok {
		return Fuse(labels, s.threshold), nil
	}

	start := time.Now()
	outcome, err := s.recognizer.Recognize(ctx, payload)
	if err != nil {
		common.LogRecognitionCall(time.Since(start), 0, err, requestID)
		return nil, recognitionFailure(err)
	}

	names, err := FuseOutcome(outcome, s.threshold)
	if err != nil {
		common.LogRecognitionCall(time.Since(start), 0, err, requestID)
		return nil, err
	}
	common.LogRecognitionCall(time.Since(start), len(outcome.Labels), nil, requestID)

	s.storeLabels(ctx, payload, outcome.Labels)

	common.LogInfo("Successfully identified ingredients",
		zap.String("request_id", requestID),
		zap.Int("labels", len(outcome.Labels)),
		zap.Int("ingredients_count", len(names)),
		zap.Float64("threshold", s.threshold),
	)

	return names, nil
}

// cachedLabels 讀取快取中的識別標籤
func (s *IngredientService) cachedLabels(ctx context.Context, payload string) ([]RecognitionLabel, bool) {
	if s.cache == nil {
		return nil, false
	}

	val, err := s.cache.Get(ctx, labelCacheKind, payload)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("Failed to read label cache", zap.Error(err))
		}
		return nil, false
	}

	var labels []RecognitionLabel
	if err := common.ParseJSON(val, &labels); err != nil {
		common.LogWarn("Discarding unreadable label cache entry", zap.Error(err))
		return nil, false
	}
	return labels, true
}

// storeLabels 寫入識別標籤快取，失敗只記錄不影響結果
func (s *IngredientService) storeLabels(ctx context.Context, payload string, labels []RecognitionLabel) {
	if s.cache == nil {
		return
	}
	if labels == nil {
		labels = []RecognitionLabel{}
	}

	data, err := json.Marshal(labels)
	if err != nil {
		common.LogWarn("Failed to encode label cache entry", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, labelCacheKind, payload, string(data)); err != nil {
		common.LogWarn("Failed to write label cache", zap.Error(err))
	}
}

// recognitionFailure 將呼叫識別服務的錯誤分類
func recognitionFailure(err error) error {
	// 本地隊列等可辨識的服務錯誤直接回傳
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}

	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return &RecognitionError{Status: status, Detail: "recognizer request failed", Err: err}
}
