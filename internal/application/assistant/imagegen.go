package assistant

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "interiorly-ai-api/pkg/errors"
	"interiorly-ai-api/pkg/logger"
	"interiorly-ai-api/pkg/metrics"

	"interiorly-ai-api/internal/infrastructure/imaging"
)

var imageTracer = otel.Tracer("assistant.imagegen")

// imagePromptPrefix 固定的领域限定前缀，加在用户提示词之前
const imagePromptPrefix = "Interior design: "

const (
	defaultImageSize    = "1024x1024"
	defaultImageQuality = "standard"
	defaultImageStyle   = "vivid"
)

var allowedImageSizes = map[string]bool{
	"1024x1024": true,
	"1792x1024": true,
	"1024x1792": true,
}

// ImageOptions 图像生成可选参数，零值取默认
type ImageOptions struct {
	Size    string
	Quality string
	Style   string
}

// ImageResult 图像生成结果。
// PromptUsed 记录实际送往模型的完整提示词，用于审计而非重新生成。
type ImageResult struct {
	URL        string `json:"url"`
	PromptUsed string `json:"prompt"`
}

// ImageGenerationPipeline 图像生成管线。
// 任何阶段的失败都收敛为单一的生成失败错误，调用方不得自动重试；
// 存储写入是最后一步，失败时不会留下半成品资产。
type ImageGenerationPipeline struct {
	client ImageClient
	store  BlobStore
}

// NewImageGenerationPipeline 创建图像生成管线
func NewImageGenerationPipeline(client ImageClient, store BlobStore) *ImageGenerationPipeline {
	return &ImageGenerationPipeline{
		client: client,
		store:  store,
	}
}

// Generate 执行一次图像生成：补前缀、调用模型、落盘、返回 URL 与完整提示词
func (p *ImageGenerationPipeline) Generate(ctx context.Context, conversationID, prompt string, opts ImageOptions) (*ImageResult, error) {
	ctx, span := imageTracer.Start(ctx, "ImageGenerationPipeline.Generate")
	span.SetAttributes(attribute.String("conversation.id", conversationID))
	defer span.End()

	opts = normalizeImageOptions(opts)
	fullPrompt := imagePromptPrefix + prompt

	start := time.Now()
	img, err := p.client.Generate(ctx, fullPrompt, imaging.GenerateOptions{
		Size:    opts.Size,
		Quality: opts.Quality,
		Style:   opts.Style,
	})
	metrics.ImageGenerationDuration.WithLabelValues(opts.Size).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error(ctx, "image model invocation failed", err,
			"conversation_id", conversationID)
		metrics.ImageGenerationTotal.WithLabelValues("error").Inc()
		return nil, apperrors.ErrImageGenerationFailed.WithError(err)
	}

	key := fmt.Sprintf("interiorly-%s-%d.png", conversationID, time.Now().UnixMilli())
	asset, err := p.store.Put(ctx, key, img.Data, "image/png")
	if err != nil {
		logger.Error(ctx, "generated image storage failed", err,
			"conversation_id", conversationID, "key", key)
		metrics.ImageGenerationTotal.WithLabelValues("error").Inc()
		return nil, apperrors.ErrImageGenerationFailed.WithError(err)
	}

	logger.Info(ctx, "image generated",
		"conversation_id", conversationID, "key", key, "size", opts.Size)
	metrics.ImageGenerationTotal.WithLabelValues("ok").Inc()

	return &ImageResult{
		URL:        asset.URL,
		PromptUsed: fullPrompt,
	}, nil
}

func normalizeImageOptions(opts ImageOptions) ImageOptions {
	if !allowedImageSizes[opts.Size] {
		opts.Size = defaultImageSize
	}
	if opts.Quality != "standard" && opts.Quality != "hd" {
		opts.Quality = defaultImageQuality
	}
	if opts.Style != "vivid" && opts.Style != "natural" {
		opts.Style = defaultImageStyle
	}
	return opts
}
