// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"interiorly-ai-api/internal/domain/entity"
)

// Base64UploadRequest base64 上传请求（助手生成图像回传）
type Base64UploadRequest struct {
	Base64Image string `json:"base64_image" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
}

// UploadResponse 上传成功响应
type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploaded_at"`
}

// NewUploadResponse 转换存储资产
func NewUploadResponse(asset *entity.StoredAsset) *UploadResponse {
	return &UploadResponse{
		URL:         asset.URL,
		Key:         asset.Key,
		ContentType: asset.ContentType,
		Size:        asset.SizeBytes,
		UploadedAt:  asset.UploadedAt.Format(time.RFC3339),
	}
}
