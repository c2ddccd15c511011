// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "interiorly-ai-api/pkg/errors"

	"interiorly-ai-api/internal/interfaces/http/dto"
)

// respondError 将应用错误映射为 HTTP 响应。
// 不向最终用户暴露底层错误细节，只给出简短的人类可读消息。
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	dto.Error(c, appErr.HTTPStatus, appErr.Message)
}
