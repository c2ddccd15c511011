// Package entity 定义领域实体
package entity

// ModelVariant 对话模型变体
type ModelVariant string

const (
	// VariantChat 完整模型，可使用全部构件工具
	VariantChat ModelVariant = "chat-model"
	// VariantReasoning 推理模型，仅内联回复，禁用构件工具
	VariantReasoning ModelVariant = "chat-model-reasoning"
)

// IsReasoning 是否为推理变体
func (v ModelVariant) IsReasoning() bool {
	return v == VariantReasoning
}
