package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/domain/repository"
	"interiorly-ai-api/internal/interfaces/http/dto"
)

// ArtifactHandler 构件查询处理器
type ArtifactHandler struct {
	lifecycle *assistant.LifecycleManager
}

// NewArtifactHandler 创建构件处理器
func NewArtifactHandler(lifecycle *assistant.LifecycleManager) *ArtifactHandler {
	return &ArtifactHandler{lifecycle: lifecycle}
}

// Get 按 ID 查询构件
func (h *ArtifactHandler) Get(c *gin.Context) {
	artifactID := c.Param("aid")
	if artifactID == "" {
		dto.BadRequest(c, "artifact id is required")
		return
	}

	artifact, err := h.lifecycle.Get(c.Request.Context(), artifactID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewArtifactResponse(artifact))
}

// ListByConversation 分页列出会话内构件
func (h *ArtifactHandler) ListByConversation(c *gin.Context) {
	conversationID := c.Param("cid")
	if conversationID == "" {
		dto.BadRequest(c, "conversation id is required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	result, err := h.lifecycle.List(c.Request.Context(), conversationID, pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.SuccessWithPage(c,
		dto.NewArtifactListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)),
	)
}
