// Package entity 定义领域实体
package entity

import (
	"time"
)

// ConversationTurn 单轮对话，核心只读不写
type ConversationTurn struct {
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	ArtifactIDs []string  `json:"artifact_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationContext 按时间排序的对话轮次序列，由调用方提供
type ConversationContext struct {
	ConversationID string             `json:"conversation_id"`
	Turns          []ConversationTurn `json:"turns"`
}

// LatestUserTurn 返回最后一轮用户发言，不存在时返回 nil
func (c *ConversationContext) LatestUserTurn() *ConversationTurn {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			return &c.Turns[i]
		}
	}
	return nil
}

// LastAssistantTurnAt 返回最后一轮用户发言之前、最近一次助手回复的时间。
// 用户尚未收到任何回复时返回零值。
func (c *ConversationContext) LastAssistantTurnAt() time.Time {
	latestUser := -1
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			latestUser = i
			break
		}
	}
	if latestUser < 0 {
		latestUser = len(c.Turns)
	}
	for i := latestUser - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleAssistant {
			return c.Turns[i].CreatedAt
		}
	}
	return time.Time{}
}

// LatestReferencedArtifactID 返回最后一轮用户发言显式引用的构件 ID，
// 未引用时回退到对话中最近出现的构件 ID
func (c *ConversationContext) LatestReferencedArtifactID() string {
	latest := c.LatestUserTurn()
	if latest != nil && len(latest.ArtifactIDs) > 0 {
		return latest.ArtifactIDs[len(latest.ArtifactIDs)-1]
	}
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if len(c.Turns[i].ArtifactIDs) > 0 {
			ids := c.Turns[i].ArtifactIDs
			return ids[len(ids)-1]
		}
	}
	return ""
}
