// Package assistant 实现助手的动作决策与构件生命周期
package assistant

import (
	"context"
	"time"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/infrastructure/imaging"
)

// BlobStore 二进制对象存储端口
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*entity.StoredAsset, error)
}

// ImageClient 图像生成端口
type ImageClient interface {
	Generate(ctx context.Context, prompt string, opts imaging.GenerateOptions) (*imaging.GeneratedImage, error)
}

// ContentGenerator 文档内容生成端口，由外部语言模型集成实现
type ContentGenerator interface {
	GenerateContent(ctx context.Context, instructions string, briefing string) (string, error)
}

// Cache 构件读缓存端口
type Cache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	InvalidatePattern(ctx context.Context, pattern string) error
}
