package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
	}
}

// Prepare 驗證圖片並回傳識別服務需要的純 base64 內容
//
// 接受純 base64 或 data:image/...;base64, 格式。
func (s *Service) Prepare(imageData string) (string, error) {
	payload := strings.TrimSpace(imageData)
	if payload == "" {
		return "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("image data is empty"))
	}

	// 去除 data URI 前綴
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image/") || !strings.HasSuffix(parts[0], ";base64") {
			return "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid data uri"))
		}
		payload = parts[1]
	}

	// 解碼 base64 數據
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}

	// 檢查文件大小
	if s.maxSizeBytes > 0 && int64(len(decoded)) > s.maxSizeBytes {
		return "", common.ErrInvalidImageSize.Wrap(fmt.Errorf("image size %d exceeds maximum limit of %d bytes", len(decoded), s.maxSizeBytes))
	}

	// 僅解析標頭確認格式
	_, format, err := image.DecodeConfig(bytes.NewReader(decoded))
	if err != nil {
		return "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return "", common.ErrInvalidImageType.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	common.LogImageProcessing("info", "圖片驗證完成",
		zap.String("format", format),
		zap.Int("bytes", len(decoded)),
	)

	return payload, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
