package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "interiorly-ai-api/pkg/errors"
	"interiorly-ai-api/pkg/logger"
	"interiorly-ai-api/pkg/metrics"

	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/domain/entity"
)

var uploadTracer = otel.Tracer("assistant.upload")

// UploadValidationPipeline 上传校验管线。
// 校验顺序固定：体积、类型、空载荷；任一拒绝都不产生存储写入。
type UploadValidationPipeline struct {
	store BlobStore
	cfg   config.UploadConfig
}

// NewUploadValidationPipeline 创建上传校验管线
func NewUploadValidationPipeline(store BlobStore, cfg config.UploadConfig) *UploadValidationPipeline {
	return &UploadValidationPipeline{
		store: store,
		cfg:   cfg,
	}
}

// AcceptUpload 校验并持久化用户上传的二进制文件
func (p *UploadValidationPipeline) AcceptUpload(ctx context.Context, data []byte, declaredContentType string, sizeBytes int64, filenameHint string) (*entity.StoredAsset, error) {
	ctx, span := uploadTracer.Start(ctx, "UploadValidationPipeline.AcceptUpload")
	span.SetAttributes(
		attribute.String("upload.content_type", declaredContentType),
		attribute.Int64("upload.size_bytes", sizeBytes),
	)
	defer span.End()

	if err := p.CheckSize(sizeBytes); err != nil {
		return nil, err
	}
	if !p.allowedType(declaredContentType) {
		metrics.UploadTotal.WithLabelValues("unsupported_type").Inc()
		return nil, apperrors.ErrUploadUnsupportedType
	}
	if len(data) == 0 || filenameHint == "" {
		metrics.UploadTotal.WithLabelValues("empty").Inc()
		return nil, apperrors.ErrUploadEmptyPayload
	}

	asset, err := p.persist(ctx, data, declaredContentType, filenameHint)
	if err != nil {
		metrics.UploadTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.UploadTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytes.WithLabelValues(declaredContentType).Observe(float64(len(data)))
	return asset, nil
}

// CheckSize 校验声明体积。
// 供 HTTP 层在读取请求体之前先行拒绝超限上传。
func (p *UploadValidationPipeline) CheckSize(sizeBytes int64) error {
	if sizeBytes > p.cfg.MaxSizeBytes {
		metrics.UploadTotal.WithLabelValues("too_large").Inc()
		return apperrors.ErrUploadTooLarge
	}
	return nil
}

// AcceptBase64 持久化 base64 编码的载荷。
// 供助手生成的图像以 data URI 形式回传使用，不是任意用户输入，
// 因此跳过体积与类型白名单校验。
func (p *UploadValidationPipeline) AcceptBase64(ctx context.Context, base64Image, filename string) (*entity.StoredAsset, error) {
	ctx, span := uploadTracer.Start(ctx, "UploadValidationPipeline.AcceptBase64")
	defer span.End()

	payload := stripDataURIPrefix(base64Image)
	if strings.TrimSpace(payload) == "" {
		metrics.UploadTotal.WithLabelValues("empty").Inc()
		return nil, apperrors.ErrUploadEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		metrics.UploadTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrInvalidParam.WithDetail("invalid base64 payload").WithError(err)
	}
	if len(data) == 0 {
		metrics.UploadTotal.WithLabelValues("empty").Inc()
		return nil, apperrors.ErrUploadEmptyPayload
	}

	if filename == "" {
		filename = fmt.Sprintf("generated-image-%d.png", time.Now().UnixMilli())
	}

	asset, err := p.persist(ctx, data, contentTypeFromFilename(filename), filename)
	if err != nil {
		metrics.UploadTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.UploadTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytes.WithLabelValues(asset.ContentType).Observe(float64(len(data)))
	return asset, nil
}

func (p *UploadValidationPipeline) persist(ctx context.Context, data []byte, contentType, filename string) (*entity.StoredAsset, error) {
	// uuid 前缀避免同名文件互相覆盖
	key := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(filename))

	asset, err := p.store.Put(ctx, key, data, contentType)
	if err != nil {
		logger.Error(ctx, "asset upload failed", err, "key", key)
		return nil, err
	}

	logger.Info(ctx, "asset uploaded",
		"key", key, "content_type", contentType, "size_bytes", len(data))
	return asset, nil
}

func (p *UploadValidationPipeline) allowedType(contentType string) bool {
	for _, allowed := range p.cfg.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func stripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	idx := strings.Index(s, "base64,")
	if idx < 0 {
		return s
	}
	return s[idx+len("base64,"):]
}

func sanitizeFilename(filename string) string {
	filename = path.Base(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	return filename
}

func contentTypeFromFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
