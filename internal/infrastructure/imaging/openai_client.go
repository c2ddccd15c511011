// Package imaging 提供图像生成服务客户端（OpenAI Images API）
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"interiorly-ai-api/internal/config"
)

var tracer = otel.Tracer("imaging")

const defaultBaseURL = "https://api.openai.com/v1"

// GenerateOptions 图像生成参数
type GenerateOptions struct {
	Size    string
	Quality string
	Style   string
}

// GeneratedImage 生成结果，Data 为解码后的图像字节
type GeneratedImage struct {
	Data          []byte
	RevisedPrompt string
}

// Client OpenAI 图像生成客户端
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient 创建图像生成客户端
func NewClient(cfg *config.ImageConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate 调用 Images API 生成单张图像
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GeneratedImage, error) {
	ctx, span := tracer.Start(ctx, "imaging.Generate")
	span.SetAttributes(
		attribute.String("imaging.model", c.model),
		attribute.String("imaging.size", opts.Size),
	)
	defer span.End()

	reqBody, err := json.Marshal(&imageRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           opts.Size,
		Quality:        opts.Quality,
		Style:          opts.Style,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var resp imageResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode image response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("image request failed: status=%d type=%s: %s", httpResp.StatusCode, resp.Error.Type, resp.Error.Message)
		}
		return nil, fmt.Errorf("image request failed: status=%d", httpResp.StatusCode)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image response contains no data")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	return &GeneratedImage{
		Data:          data,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}
