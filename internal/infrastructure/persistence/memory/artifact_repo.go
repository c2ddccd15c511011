// Package memory 提供内存版仓储实现，用于本地开发与测试
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
)

// ArtifactRepo 构件仓储的内存实现
type ArtifactRepo struct {
	mu        sync.RWMutex
	artifacts map[string]*entity.Artifact
}

// NewArtifactRepo 创建内存构件仓储
func NewArtifactRepo() *ArtifactRepo {
	return &ArtifactRepo{
		artifacts: make(map[string]*entity.Artifact),
	}
}

func (r *ArtifactRepo) Create(_ context.Context, artifact *entity.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	artifact.Version = 1
	now := time.Now()
	artifact.CreatedAt = now
	artifact.LastUpdatedAt = now

	stored := *artifact
	r.artifacts[artifact.ID] = &stored
	return nil
}

func (r *ArtifactRepo) GetByID(_ context.Context, id string) (*entity.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifact, ok := r.artifacts[id]
	if !ok {
		return nil, nil
	}
	clone := *artifact
	return &clone, nil
}

func (r *ArtifactRepo) ListByConversation(_ context.Context, conversationID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Artifact], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.Artifact
	for _, artifact := range r.artifacts {
		if artifact.ConversationID == conversationID {
			clone := *artifact
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	return repository.NewPagedResult(matched[start:end], total, pagination), nil
}

func (r *ArtifactRepo) UpdateContent(_ context.Context, id string, newContent string, expectedVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	artifact, ok := r.artifacts[id]
	if !ok || artifact.Version != expectedVersion {
		return false, nil
	}
	artifact.Content = newContent
	artifact.Version = expectedVersion + 1
	artifact.LastUpdatedAt = time.Now()
	return true, nil
}
