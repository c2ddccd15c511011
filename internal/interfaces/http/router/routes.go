// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 文件上传
	files := v1.Group("/files")
	{
		files.POST("/upload", h.Upload.Upload)
		files.PUT("/upload", h.Upload.UploadBase64)
	}

	// 会话派发与构件列表
	conversations := v1.Group("/conversations")
	{
		conversations.POST("/:cid/dispatch", h.Assistant.Dispatch)
		conversations.GET("/:cid/artifacts", h.Artifact.ListByConversation)
	}

	// 构件查询
	artifacts := v1.Group("/artifacts")
	{
		artifacts.GET("/:aid", h.Artifact.Get)
	}

	// 会话起始建议
	v1.GET("/suggestions", h.Assistant.Suggestions)
}
