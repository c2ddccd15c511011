package assistant

import (
	"interiorly-ai-api/internal/domain/entity"
)

// ActionType 一次派发周期可选择的能力
type ActionType string

const (
	ActionReply          ActionType = "reply"
	ActionCreateDocument ActionType = "create_document"
	ActionUpdateDocument ActionType = "update_document"
	ActionGenerateImage  ActionType = "generate_image"
)

// Action 动作决策结果，按 Type 取对应字段
type Action struct {
	Type ActionType

	// CreateDocument
	Kind     entity.ArtifactKind
	Briefing string

	// UpdateDocument
	ArtifactID   string
	Instructions string

	// GenerateImage
	Prompt string
}

// Reply 构造内联回复动作
func Reply() Action {
	return Action{Type: ActionReply}
}

// CreateDocument 构造建档动作
func CreateDocument(kind entity.ArtifactKind, briefing string) Action {
	return Action{Type: ActionCreateDocument, Kind: kind, Briefing: briefing}
}

// UpdateDocument 构造修订动作
func UpdateDocument(artifactID, instructions string) Action {
	return Action{Type: ActionUpdateDocument, ArtifactID: artifactID, Instructions: instructions}
}

// GenerateImage 构造图像生成动作
func GenerateImage(prompt string) Action {
	return Action{Type: ActionGenerateImage, Prompt: prompt}
}
