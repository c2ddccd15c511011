package prompt

import (
	"strings"

	"interiorly-ai-api/internal/domain/entity"
)

const contentPlaceholder = "{{content}}"

// Assembler 指令组装器。
// 相同输入必须产出相同文本，无副作用、无外部调用。
type Assembler struct {
	registry *Registry
}

// NewAssembler 创建指令组装器
func NewAssembler(registry *Registry) *Assembler {
	return &Assembler{registry: registry}
}

// Assemble 组装交给语言模型的系统指令。
// 所有变体都包含角色设定与请求处理规则；
// 完整变体按固定顺序追加工具使用指南和按类型选择的创作指南。
func (a *Assembler) Assemble(variant entity.ModelVariant, kindHint entity.ArtifactKind) (string, error) {
	segments := []SegmentID{SegmentPersona, SegmentRequestHandling}

	if !variant.IsReasoning() {
		segments = append(segments, SegmentToolGuide)
		if guide, ok := kindGuide(kindHint); ok {
			segments = append(segments, guide)
		}
	}

	parts := make([]string, 0, len(segments))
	for _, id := range segments {
		text, err := a.registry.Segment(id)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// UpdateInstruction 组装修订现有构件的指令，原内容嵌入其中
func (a *Assembler) UpdateInstruction(kind entity.ArtifactKind, currentContent string) (string, error) {
	var id SegmentID
	switch kind {
	case entity.ArtifactKindSheet:
		id = SegmentUpdateSheet
	case entity.ArtifactKindCode:
		id = SegmentUpdateCode
	default:
		id = SegmentUpdateText
	}

	template, err := a.registry.Segment(id)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(template, contentPlaceholder, currentContent), nil
}

// kindGuide 按构件类型提示选择创作指南。
// 未给出提示时默认附加图像指南，保证可视化请求总能拿到提示词构造规则。
func kindGuide(kindHint entity.ArtifactKind) (SegmentID, bool) {
	switch kindHint {
	case entity.ArtifactKindSheet:
		return SegmentSheetGuide, true
	case entity.ArtifactKindCode:
		return SegmentCodeGuide, true
	case entity.ArtifactKindText:
		return "", false
	default:
		return SegmentImageGuide, true
	}
}
