// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"interiorly-ai-api/internal/domain/entity"
)

// ArtifactRepository 构件存储接口。
// UpdateContent 是唯一的变更入口，采用版本号比较写入：
// expectedVersion 不匹配时不得产生任何写入，由实现返回 false。
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.Artifact) error
	GetByID(ctx context.Context, id string) (*entity.Artifact, error)
	ListByConversation(ctx context.Context, conversationID string, pagination Pagination) (*PagedResult[*entity.Artifact], error)
	// UpdateContent 将构件内容更新为 newContent 并把版本推进到 expectedVersion+1。
	// 返回 (false, nil) 表示版本冲突（并发写入者已先行）。
	UpdateContent(ctx context.Context, id string, newContent string, expectedVersion int) (bool, error)
}
