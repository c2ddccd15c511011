package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	apperrors "interiorly-ai-api/pkg/errors"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/interfaces/http/dto"
)

// UploadHandler 文件上传处理器
type UploadHandler struct {
	pipeline *assistant.UploadValidationPipeline
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(pipeline *assistant.UploadValidationPipeline) *UploadHandler {
	return &UploadHandler{pipeline: pipeline}
}

// Upload 二进制表单上传，字段名固定为 file
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.ErrUploadEmptyPayload)
		return
	}

	// 超限上传在读取请求体之前拒绝
	if err := h.pipeline.CheckSize(fileHeader.Size); err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.ErrUploadEmptyPayload)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperrors.ErrStorageFailed.WithError(err))
		return
	}

	asset, err := h.pipeline.AcceptUpload(
		c.Request.Context(),
		data,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		fileHeader.Filename,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewUploadResponse(asset))
}

// UploadBase64 base64 载荷上传，供助手生成图像以 data URI 回传
func (h *UploadHandler) UploadBase64(c *gin.Context) {
	var req dto.Base64UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "base64_image and filename are required")
		return
	}

	asset, err := h.pipeline.AcceptBase64(c.Request.Context(), req.Base64Image, req.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewUploadResponse(asset))
}
