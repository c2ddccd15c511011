// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/domain/entity"
)

// DispatchTurn 派发请求中的单轮对话
type DispatchTurn struct {
	Role        string    `json:"role" binding:"required"`
	Content     string    `json:"content"`
	ArtifactIDs []string  `json:"artifact_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at" binding:"required"`
}

// DispatchRequest 派发请求：对话上下文由调用方携带，服务端不持久化轮次
type DispatchRequest struct {
	ModelVariant string         `json:"model_variant,omitempty"`
	Turns        []DispatchTurn `json:"turns" binding:"required,min=1"`
}

// ToConversationContext 转换为领域对象
func (r *DispatchRequest) ToConversationContext(conversationID string) *entity.ConversationContext {
	turns := make([]entity.ConversationTurn, 0, len(r.Turns))
	for _, t := range r.Turns {
		turns = append(turns, entity.ConversationTurn{
			Role:        entity.Role(t.Role),
			Content:     t.Content,
			ArtifactIDs: t.ArtifactIDs,
			CreatedAt:   t.CreatedAt,
		})
	}
	return &entity.ConversationContext{
		ConversationID: conversationID,
		Turns:          turns,
	}
}

// Variant 解析模型变体，缺省为完整模型
func (r *DispatchRequest) Variant() entity.ModelVariant {
	if r.ModelVariant == string(entity.VariantReasoning) {
		return entity.VariantReasoning
	}
	return entity.VariantChat
}

// DispatchResponse 派发结果
type DispatchResponse struct {
	Action       string                `json:"action"`
	Instructions string                `json:"instructions"`
	Artifact     *ArtifactResponse     `json:"artifact,omitempty"`
	Image        *GeneratedImageResult `json:"image,omitempty"`
}

// GeneratedImageResult 图像生成结果
type GeneratedImageResult struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// NewDispatchResponse 转换派发结果
func NewDispatchResponse(result *assistant.DispatchResult) *DispatchResponse {
	resp := &DispatchResponse{
		Action:       string(result.Action),
		Instructions: result.Instructions,
	}
	if result.Artifact != nil {
		resp.Artifact = NewArtifactResponse(result.Artifact)
	}
	if result.Image != nil {
		resp.Image = &GeneratedImageResult{
			URL:    result.Image.URL,
			Prompt: result.Image.PromptUsed,
		}
	}
	return resp
}

// SuggestedActionResponse 会话起始建议
type SuggestedActionResponse struct {
	Title  string `json:"title"`
	Label  string `json:"label"`
	Action string `json:"action"`
}
