package handler

import (
	"github.com/gin-gonic/gin"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/interfaces/http/dto"
)

// AssistantHandler 助手派发处理器
type AssistantHandler struct {
	dispatcher  *assistant.Dispatcher
	suggestions []config.SuggestedAction
}

// NewAssistantHandler 创建助手处理器
func NewAssistantHandler(dispatcher *assistant.Dispatcher, suggestions []config.SuggestedAction) *AssistantHandler {
	return &AssistantHandler{
		dispatcher:  dispatcher,
		suggestions: suggestions,
	}
}

// Dispatch 处理一个用户轮次：选择能力、组装指令、执行管线或生命周期操作
func (h *AssistantHandler) Dispatch(c *gin.Context) {
	conversationID := c.Param("cid")
	if conversationID == "" {
		dto.BadRequest(c, "conversation id is required")
		return
	}

	var req dto.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "turns are required")
		return
	}

	result, err := h.dispatcher.Dispatch(
		c.Request.Context(),
		req.ToConversationContext(conversationID),
		req.Variant(),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewDispatchResponse(result))
}

// Suggestions 会话起始建议，静态只读
func (h *AssistantHandler) Suggestions(c *gin.Context) {
	out := make([]*dto.SuggestedActionResponse, 0, len(h.suggestions))
	for _, s := range h.suggestions {
		out = append(out, &dto.SuggestedActionResponse{
			Title:  s.Title,
			Label:  s.Label,
			Action: s.Action,
		})
	}
	dto.Success(c, out)
}
