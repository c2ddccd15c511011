package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
)

func TestArtifactRepoCreateAndGet(t *testing.T) {
	repo := NewArtifactRepo()

	artifact := &entity.Artifact{ConversationID: "c1", Kind: entity.ArtifactKindText, Content: "draft"}
	require.NoError(t, repo.Create(context.Background(), artifact))
	assert.NotEmpty(t, artifact.ID)
	assert.Equal(t, 1, artifact.Version)

	got, err := repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "draft", got.Content)

	// 不存在返回 (nil, nil)
	got, err = repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestArtifactRepoGetReturnsClone(t *testing.T) {
	repo := NewArtifactRepo()

	artifact := &entity.Artifact{ConversationID: "c1", Kind: entity.ArtifactKindText, Content: "draft"}
	require.NoError(t, repo.Create(context.Background(), artifact))

	got, err := repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	got.Content = "mutated by caller"

	again, err := repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", again.Content)
}

func TestArtifactRepoUpdateContent(t *testing.T) {
	repo := NewArtifactRepo()

	artifact := &entity.Artifact{ConversationID: "c1", Kind: entity.ArtifactKindText, Content: "v1"}
	require.NoError(t, repo.Create(context.Background(), artifact))

	ok, err := repo.UpdateContent(context.Background(), artifact.ID, "v2", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, 2, got.Version)
	assert.True(t, got.LastUpdatedAt.After(got.CreatedAt) || got.LastUpdatedAt.Equal(got.CreatedAt))

	// 版本号过期的写入者落败
	ok, err = repo.UpdateContent(context.Background(), artifact.ID, "stale write", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// 不存在的构件同样返回 false
	ok, err = repo.UpdateContent(context.Background(), "missing", "v2", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArtifactRepoListByConversation(t *testing.T) {
	repo := NewArtifactRepo()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(context.Background(), &entity.Artifact{
			ConversationID: "c1",
			Kind:           entity.ArtifactKindText,
			Content:        "draft",
		}))
	}
	require.NoError(t, repo.Create(context.Background(), &entity.Artifact{
		ConversationID: "c2",
		Kind:           entity.ArtifactKindText,
		Content:        "other",
	}))

	page, err := repo.ListByConversation(context.Background(), "c1", repository.NewPagination(1, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, page.TotalPages)

	page, err = repo.ListByConversation(context.Background(), "c1", repository.NewPagination(2, 3))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// 越界页返回空集而非错误
	page, err = repo.ListByConversation(context.Background(), "c1", repository.NewPagination(9, 3))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
