// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"interiorly-ai-api/internal/domain/entity"
)

// ArtifactResponse 构件响应
type ArtifactResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Kind           string `json:"kind"`
	Version        int    `json:"version"`
	Content        string `json:"content"`
	Prompt         string `json:"prompt,omitempty"`
	CreatedAt      string `json:"created_at"`
	LastUpdatedAt  string `json:"last_updated_at"`
}

// NewArtifactResponse 转换构件实体
func NewArtifactResponse(artifact *entity.Artifact) *ArtifactResponse {
	return &ArtifactResponse{
		ID:             artifact.ID,
		ConversationID: artifact.ConversationID,
		Kind:           string(artifact.Kind),
		Version:        artifact.Version,
		Content:        artifact.Content,
		Prompt:         artifact.Prompt,
		CreatedAt:      artifact.CreatedAt.Format(time.RFC3339),
		LastUpdatedAt:  artifact.LastUpdatedAt.Format(time.RFC3339),
	}
}

// NewArtifactListResponse 转换构件列表
func NewArtifactListResponse(artifacts []*entity.Artifact) []*ArtifactResponse {
	out := make([]*ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, NewArtifactResponse(a))
	}
	return out
}
