package assistant

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "interiorly-ai-api/pkg/errors"
	"interiorly-ai-api/pkg/logger"
	"interiorly-ai-api/pkg/metrics"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
	"interiorly-ai-api/internal/infrastructure/persistence/redis"
)

var lifecycleTracer = otel.Tracer("assistant.lifecycle")

const (
	artifactCacheTTL     = 5 * time.Minute
	artifactListCacheTTL = time.Minute
)

// LifecycleManager 构件生命周期管理器。
// 自身无状态，"等待用户反馈"不落盘为标志位，
// 而是由 lastUpdatedAt 与用户已见的助手回复时间推导。
type LifecycleManager struct {
	artifacts repository.ArtifactRepository
	cache     Cache
}

// NewLifecycleManager 创建生命周期管理器，cache 可为 nil
func NewLifecycleManager(artifacts repository.ArtifactRepository, cache Cache) *LifecycleManager {
	return &LifecycleManager{
		artifacts: artifacts,
		cache:     cache,
	}
}

// Create 创建构件，version 固定为 1
func (m *LifecycleManager) Create(ctx context.Context, conversationID string, kind entity.ArtifactKind, content string) (*entity.Artifact, error) {
	ctx, span := lifecycleTracer.Start(ctx, "LifecycleManager.Create")
	span.SetAttributes(attribute.String("artifact.kind", string(kind)))
	defer span.End()

	if !entity.ValidKind(kind) || !entity.ValidateContent(kind, content) {
		metrics.ArtifactOpsTotal.WithLabelValues(string(kind), "create", "invalid").Inc()
		return nil, apperrors.ErrInvalidKindContent
	}

	artifact := &entity.Artifact{
		ConversationID: conversationID,
		Kind:           kind,
		Content:        content,
	}
	if err := m.artifacts.Create(ctx, artifact); err != nil {
		metrics.ArtifactOpsTotal.WithLabelValues(string(kind), "create", "error").Inc()
		return nil, err
	}

	m.invalidateLists(ctx, conversationID)

	logger.Info(ctx, "artifact created",
		"artifact_id", artifact.ID,
		"conversation_id", conversationID,
		"kind", string(kind))
	metrics.ArtifactOpsTotal.WithLabelValues(string(kind), "create", "ok").Inc()
	return artifact, nil
}

// CreateImage 创建图像构件，content 为资产 URL，prompt 记录实际使用的提示词
func (m *LifecycleManager) CreateImage(ctx context.Context, conversationID, url, promptUsed string) (*entity.Artifact, error) {
	ctx, span := lifecycleTracer.Start(ctx, "LifecycleManager.CreateImage")
	defer span.End()

	if !entity.ValidateContent(entity.ArtifactKindImage, url) {
		metrics.ArtifactOpsTotal.WithLabelValues(string(entity.ArtifactKindImage), "create", "invalid").Inc()
		return nil, apperrors.ErrInvalidKindContent
	}

	artifact := &entity.Artifact{
		ConversationID: conversationID,
		Kind:           entity.ArtifactKindImage,
		Content:        url,
		Prompt:         promptUsed,
	}
	if err := m.artifacts.Create(ctx, artifact); err != nil {
		metrics.ArtifactOpsTotal.WithLabelValues(string(entity.ArtifactKindImage), "create", "error").Inc()
		return nil, err
	}

	m.invalidateLists(ctx, conversationID)

	metrics.ArtifactOpsTotal.WithLabelValues(string(entity.ArtifactKindImage), "create", "ok").Inc()
	return artifact, nil
}

// Update 修订构件内容并把版本推进一位。
//
// lastSeenAssistantAt 是用户最近看到的助手回复时间：
// 构件的最近写入必须严格早于它，否则视为同一派发周期内的修订并拒绝。
// 版本推进通过仓储的比较写入完成，并发写入者中后到的一方收到冲突。
func (m *LifecycleManager) Update(ctx context.Context, artifactID, newContent string, lastSeenAssistantAt time.Time) (*entity.Artifact, error) {
	ctx, span := lifecycleTracer.Start(ctx, "LifecycleManager.Update")
	span.SetAttributes(attribute.String("artifact.id", artifactID))
	defer span.End()

	artifact, err := m.artifacts.GetByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, apperrors.ErrArtifactNotFound
	}

	kind := string(artifact.Kind)

	if lastSeenAssistantAt.IsZero() || !artifact.LastUpdatedAt.Before(lastSeenAssistantAt) {
		logger.Warn(ctx, "artifact update rejected before user feedback",
			"artifact_id", artifactID, "kind", kind)
		metrics.ArtifactOpsTotal.WithLabelValues(kind, "update", "too_soon").Inc()
		return nil, apperrors.ErrArtifactTooSoon
	}

	// kind 不可变：新内容必须仍满足原类型的结构契约
	if !entity.ValidateContent(artifact.Kind, newContent) {
		metrics.ArtifactOpsTotal.WithLabelValues(kind, "update", "kind_mismatch").Inc()
		return nil, apperrors.ErrArtifactKindMismatch
	}

	ok, err := m.artifacts.UpdateContent(ctx, artifactID, newContent, artifact.Version)
	if err != nil {
		metrics.ArtifactOpsTotal.WithLabelValues(kind, "update", "error").Inc()
		return nil, err
	}
	if !ok {
		metrics.ArtifactOpsTotal.WithLabelValues(kind, "update", "conflict").Inc()
		return nil, apperrors.ErrArtifactVersionConflict
	}

	m.invalidate(ctx, artifactID)
	m.invalidateLists(ctx, artifact.ConversationID)

	updated, err := m.artifacts.GetByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.ErrArtifactNotFound
	}

	logger.Info(ctx, "artifact updated",
		"artifact_id", artifactID, "kind", kind, "version", updated.Version)
	metrics.ArtifactOpsTotal.WithLabelValues(kind, "update", "ok").Inc()
	return updated, nil
}

// Get 按 ID 读取构件，经 Redis 读缓存
func (m *LifecycleManager) Get(ctx context.Context, artifactID string) (*entity.Artifact, error) {
	ctx, span := lifecycleTracer.Start(ctx, "LifecycleManager.Get")
	span.SetAttributes(attribute.String("artifact.id", artifactID))
	defer span.End()

	if m.cache == nil {
		return m.load(ctx, artifactID)
	}

	data, err := m.cache.GetOrLoadSafe(ctx, redis.ArtifactKey(artifactID), artifactCacheTTL, func() (interface{}, error) {
		return m.load(ctx, artifactID)
	})
	if err != nil {
		return nil, err
	}

	var artifact entity.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// 缓存数据损坏时直接回源
		logger.Warn(ctx, "corrupt artifact cache entry, reloading", "artifact_id", artifactID)
		m.invalidate(ctx, artifactID)
		return m.load(ctx, artifactID)
	}
	return &artifact, nil
}

// List 分页列出会话内的构件，经 Redis 读缓存，按页缓存
func (m *LifecycleManager) List(ctx context.Context, conversationID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Artifact], error) {
	ctx, span := lifecycleTracer.Start(ctx, "LifecycleManager.List")
	span.SetAttributes(attribute.String("conversation.id", conversationID))
	defer span.End()

	if m.cache == nil {
		return m.artifacts.ListByConversation(ctx, conversationID, pagination)
	}

	key := redis.ConversationArtifactsKey(conversationID, pagination.Page, pagination.PageSize)
	data, err := m.cache.GetOrLoadSafe(ctx, key, artifactListCacheTTL, func() (interface{}, error) {
		return m.artifacts.ListByConversation(ctx, conversationID, pagination)
	})
	if err != nil {
		return nil, err
	}

	var result repository.PagedResult[*entity.Artifact]
	if err := json.Unmarshal(data, &result); err != nil {
		// 缓存数据损坏时直接回源
		logger.Warn(ctx, "corrupt artifact list cache entry, reloading", "conversation_id", conversationID)
		m.invalidateLists(ctx, conversationID)
		return m.artifacts.ListByConversation(ctx, conversationID, pagination)
	}
	return &result, nil
}

func (m *LifecycleManager) load(ctx context.Context, artifactID string) (*entity.Artifact, error) {
	artifact, err := m.artifacts.GetByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, apperrors.ErrArtifactNotFound
	}
	return artifact, nil
}

func (m *LifecycleManager) invalidate(ctx context.Context, artifactID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, redis.ArtifactKey(artifactID)); err != nil {
		logger.Warn(ctx, "failed to invalidate artifact cache", "artifact_id", artifactID)
	}
}

func (m *LifecycleManager) invalidateLists(ctx context.Context, conversationID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.InvalidatePattern(ctx, redis.ConversationArtifactsPattern(conversationID)); err != nil {
		logger.Warn(ctx, "failed to invalidate artifact list cache", "conversation_id", conversationID)
	}
}
