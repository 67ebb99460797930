package clarifai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Clarifai 食材識別客戶端
type Client struct {
	config *config.ClarifaiConfig
	client *resty.Client
}

// Concept Clarifai 回傳的概念
type Concept struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	AppID string  `json:"app_id"`
}

// Status Clarifai 狀態
type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// Output 單一輸入的輸出
type Output struct {
	Status *Status `json:"status"`
	Data   *struct {
		Concepts []Concept `json:"concepts"`
	} `json:"data"`
}

// Response Clarifai outputs API 回應
type Response struct {
	Status  *Status  `json:"status"`
	Outputs []Output `json:"outputs"`
}

type imageInput struct {
	Data struct {
		Image struct {
			Base64 string `json:"base64"`
		} `json:"image"`
	} `json:"data"`
}

type outputsRequest struct {
	Inputs []imageInput `json:"inputs"`
}

// NewClient 創建 Clarifai 客戶端
func NewClient(cfg *config.ClarifaiConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Key %s", cfg.APIKey))

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

// outputsPath 模型 outputs 端點
func (c *Client) outputsPath() string {
	return fmt.Sprintf("/v2/users/%s/apps/%s/models/%s/outputs", c.config.UserID, c.config.AppID, c.config.ModelID)
}

// Recognize 送出 base64 圖片並解析識別結果
//
// 只有網路層失敗會回傳 error；上游錯誤狀態與無法解析的內容
// 都以 RecognitionOutcome 表示，由呼叫者決定如何處理。
func (c *Client) Recognize(ctx context.Context, imageBase64 string) (*recipe.RecognitionOutcome, error) {
	var input imageInput
	input.Data.Image.Base64 = imageBase64
	payload := outputsRequest{Inputs: []imageInput{input}}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.outputsPath())
	if err != nil {
		common.LogError("Failed to send request to Clarifai",
			zap.Error(err),
			zap.String("model", c.config.ModelID),
		)
		return nil, fmt.Errorf("failed to send request to Clarifai: %w", err)
	}

	outcome := parseOutcome(resp.StatusCode(), resp.Body())

	common.LogDebug("Clarifai response received",
		zap.Int("status_code", outcome.Status),
		zap.Int("labels", len(outcome.Labels)),
		zap.Bool("malformed", outcome.Malformed),
		zap.Duration("latency", time.Since(start)),
	)

	return outcome, nil
}

// parseOutcome 將 HTTP 回應轉為識別結果
func parseOutcome(statusCode int, body []byte) *recipe.RecognitionOutcome {
	outcome := &recipe.RecognitionOutcome{Status: statusCode}

	var parsed Response
	parseErr := json.Unmarshal(body, &parsed)

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		outcome.Detail = errorDetail(&parsed, statusCode)
		if parseErr != nil {
			outcome.Detail = http.StatusText(statusCode)
		}
		common.LogError("Clarifai API returned error status",
			zap.Int("status_code", statusCode),
			zap.String("detail", outcome.Detail),
		)
		return outcome
	}

	if parseErr != nil {
		outcome.Malformed = true
		outcome.Detail = fmt.Sprintf("failed to parse Clarifai response: %v", parseErr)
		return outcome
	}

	if len(parsed.Outputs) == 0 || parsed.Outputs[0].Data == nil {
		outcome.Malformed = true
		outcome.Detail = "Clarifai response has no output data"
		return outcome
	}

	concepts := parsed.Outputs[0].Data.Concepts
	outcome.Labels = make([]recipe.RecognitionLabel, 0, len(concepts))
	for _, concept := range concepts {
		outcome.Labels = append(outcome.Labels, recipe.RecognitionLabel{
			Name:       concept.Name,
			Confidence: concept.Value,
		})
	}
	return outcome
}

// errorDetail 依序取用輸出狀態細節、頂層狀態描述
func errorDetail(parsed *Response, statusCode int) string {
	if len(parsed.Outputs) > 0 && parsed.Outputs[0].Status != nil {
		if d := parsed.Outputs[0].Status.Details; d != "" {
			return d
		}
	}
	if parsed.Status != nil {
		if parsed.Status.Details != "" {
			return parsed.Status.Details
		}
		if parsed.Status.Description != "" {
			return parsed.Status.Description
		}
	}
	return http.StatusText(statusCode)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
