// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// ArtifactKind 构件类型，创建后不可变更
type ArtifactKind string

const (
	ArtifactKindText  ArtifactKind = "text"
	ArtifactKindSheet ArtifactKind = "sheet"
	ArtifactKindCode  ArtifactKind = "code"
	ArtifactKindImage ArtifactKind = "image"
)

// ValidKind 检查构件类型是否合法
func ValidKind(kind ArtifactKind) bool {
	switch kind {
	case ArtifactKindText, ArtifactKindSheet, ArtifactKindCode, ArtifactKindImage:
		return true
	default:
		return false
	}
}

// Artifact 会话侧栏中持久存在、可修订的生成内容单元
type Artifact struct {
	ID             string       `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID string       `json:"conversation_id" gorm:"type:uuid;index;not null"`
	Kind           ArtifactKind `json:"kind" gorm:"type:varchar(16);not null"`
	Version        int          `json:"version" gorm:"not null;default:1"`
	Content        string       `json:"content" gorm:"type:text;not null"`
	// Prompt 仅 image 类构件使用：生成该图像的完整提示词（审计用途）
	Prompt        string    `json:"prompt,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	LastUpdatedAt time.Time `json:"last_updated_at" gorm:"not null"`
}

func (Artifact) TableName() string {
	return "artifacts"
}

// 代码构件禁止出现的结构：交互输入、文件与网络访问、math 之外的 import
var forbiddenCodeFragments = []string{
	"input(",
	"open(",
	"import os",
	"import sys",
	"import socket",
	"import requests",
	"import urllib",
	"import subprocess",
	"from os",
	"from sys",
}

// ValidateContent 校验内容是否满足指定构件类型的结构契约
func ValidateContent(kind ArtifactKind, content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}

	switch kind {
	case ArtifactKindText:
		return true
	case ArtifactKindSheet:
		// CSV：表头行 + 至少一条数据行，表头必须含分隔符
		lines := nonEmptyLines(trimmed)
		if len(lines) < 2 {
			return false
		}
		return strings.Contains(lines[0], ",")
	case ArtifactKindCode:
		lower := strings.ToLower(trimmed)
		for _, frag := range forbiddenCodeFragments {
			if strings.Contains(lower, frag) {
				return false
			}
		}
		return true
	case ArtifactKindImage:
		return strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://")
	default:
		return false
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
