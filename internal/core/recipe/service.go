package recipe

import (
	"context"
)

// Recognizer 外部食材識別服務
type Recognizer interface {
	Recognize(ctx context.Context, imageBase64 string) (*RecognitionOutcome, error)
}

// LabelCache 識別結果快取
type LabelCache interface {
	Get(ctx context.Context, kind, payload string) (string, error)
	Set(ctx context.Context, kind, payload, value string) error
}

// ImagePreparer 圖片驗證與格式轉換
type ImagePreparer interface {
	Prepare(imageData string) (string, error)
}

// Query 食譜搜尋條件
type Query struct {
	Ingredients   string
	DietaryFilter string
	TimeFilter    int
}
