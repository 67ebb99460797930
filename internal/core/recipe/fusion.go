package recipe

import (
	"errors"
	"fmt"
)

// DefaultConfidenceThreshold 識別標籤的預設信心門檻（嚴格大於才採用）
const DefaultConfidenceThreshold = 0.90

// ErrRecognitionUnavailable 食材識別服務失敗或回應無法解析
var ErrRecognitionUnavailable = errors.New("recognition unavailable")

// RecognitionLabel 識別服務回傳的標籤與信心值
type RecognitionLabel struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// RecognitionOutcome 識別服務的解析結果
type RecognitionOutcome struct {
	Status    int                `json:"status"`    // HTTP 狀態碼
	Detail    string             `json:"detail"`    // 錯誤細節
	Labels    []RecognitionLabel `json:"labels"`    // 依識別服務順序
	Malformed bool               `json:"malformed"` // 缺少預期的輸出結構
}

// OK 識別服務是否回報成功且結構完整
func (o *RecognitionOutcome) OK() bool {
	return o != nil && !o.Malformed && o.Status >= 200 && o.Status < 300
}

// RecognitionError 識別失敗，保留上游狀態碼與細節
type RecognitionError struct {
	Status int
	Detail string
	Err    error
}

func (e *RecognitionError) Error() string {
	msg := fmt.Sprintf("recognition unavailable (status %d)", e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 返回底層錯誤
func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Is 所有識別錯誤皆視為 ErrRecognitionUnavailable
func (e *RecognitionError) Is(target error) bool {
	return target == ErrRecognitionUnavailable
}

// Fuse 篩選信心值大於門檻的標籤並取出名稱
//
// 保留識別服務的順序，不去重，也不改變大小寫。
func Fuse(labels []RecognitionLabel, threshold float64) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Confidence > threshold {
			names = append(names, l.Name)
		}
	}
	return names
}

// FuseOutcome 將識別服務結果轉為食材名稱
//
// 上游回報失敗或結構缺失時回傳 *RecognitionError；
// 成功但沒有標籤時回傳空列表。
func FuseOutcome(outcome *RecognitionOutcome, threshold float64) ([]string, error) {
	if outcome == nil {
		// 沒有收到任何上游回應，狀態碼記為 0
		return nil, &RecognitionError{Status: 0, Detail: "empty recognizer response"}
	}
	if !outcome.OK() {
		detail := outcome.Detail
		if outcome.Malformed && detail == "" {
			detail = "malformed recognizer payload"
		}
		return nil, &RecognitionError{Status: outcome.Status, Detail: detail}
	}
	return Fuse(outcome.Labels, threshold), nil
}
