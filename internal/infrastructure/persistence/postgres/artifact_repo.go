package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	apperrors "interiorly-ai-api/pkg/errors"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
)

// ArtifactRepo 构件仓储的 PostgreSQL 实现
type ArtifactRepo struct {
	db *gorm.DB
}

// NewArtifactRepo 创建构件仓储
func NewArtifactRepo(client *Client) repository.ArtifactRepository {
	return &ArtifactRepo{db: client.DB()}
}

// Create 创建构件，版本号固定从 1 开始
func (r *ArtifactRepo) Create(ctx context.Context, artifact *entity.Artifact) error {
	ctx, span := tracer.Start(ctx, "ArtifactRepo.Create")
	defer span.End()

	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	artifact.Version = 1
	now := time.Now()
	artifact.CreatedAt = now
	artifact.LastUpdatedAt = now

	span.SetAttributes(
		attribute.String("artifact.id", artifact.ID),
		attribute.String("artifact.kind", string(artifact.Kind)),
	)

	if err := r.db.WithContext(ctx).Create(artifact).Error; err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create artifact")
	}
	return nil
}

// GetByID 按 ID 查询构件，不存在时返回 (nil, nil)
func (r *ArtifactRepo) GetByID(ctx context.Context, id string) (*entity.Artifact, error) {
	ctx, span := tracer.Start(ctx, "ArtifactRepo.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("artifact.id", id))

	var artifact entity.Artifact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&artifact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get artifact")
	}
	return &artifact, nil
}

// ListByConversation 分页查询会话内的构件，按创建时间升序
func (r *ArtifactRepo) ListByConversation(ctx context.Context, conversationID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Artifact], error) {
	ctx, span := tracer.Start(ctx, "ArtifactRepo.ListByConversation")
	defer span.End()

	span.SetAttributes(attribute.String("conversation.id", conversationID))

	query := r.db.WithContext(ctx).Model(&entity.Artifact{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count artifacts")
	}

	var artifacts []*entity.Artifact
	err := query.
		Order("created_at ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&artifacts).Error
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list artifacts")
	}

	return repository.NewPagedResult(artifacts, total, pagination), nil
}

// UpdateContent 比较版本号并写入新内容。
// WHERE 条件带上 expectedVersion，影响行数为 0 即视为并发冲突。
func (r *ArtifactRepo) UpdateContent(ctx context.Context, id string, newContent string, expectedVersion int) (bool, error) {
	ctx, span := tracer.Start(ctx, "ArtifactRepo.UpdateContent")
	defer span.End()

	span.SetAttributes(
		attribute.String("artifact.id", id),
		attribute.Int("artifact.expected_version", expectedVersion),
	)

	result := r.db.WithContext(ctx).
		Model(&entity.Artifact{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"content":         newContent,
			"version":         expectedVersion + 1,
			"last_updated_at": time.Now(),
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return false, apperrors.Wrap(result.Error, apperrors.CodeDatabaseError, "failed to update artifact")
	}
	return result.RowsAffected > 0, nil
}
