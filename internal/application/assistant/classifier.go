package assistant

import (
	"strings"

	"interiorly-ai-api/internal/config"
)

// Classification 用户输入的触发信号，仅作为决策信号之一
type Classification struct {
	Visualization bool
	DesignConcept bool
	Sheet         bool
	Code          bool
	Revision      bool
}

// Classifier 输入分类器。
// 当前为关键词实现，后续可替换为模型分类器而不影响选择器的优先级逻辑。
type Classifier interface {
	Classify(text string) Classification
}

// KeywordClassifier 基于触发词表的子串匹配分类器
type KeywordClassifier struct {
	triggers config.TriggersConfig
}

// NewKeywordClassifier 创建关键词分类器
func NewKeywordClassifier(triggers config.TriggersConfig) *KeywordClassifier {
	return &KeywordClassifier{triggers: triggers}
}

// Classify 对用户输入做大小写无关的子串匹配
func (c *KeywordClassifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	return Classification{
		Visualization: matchAny(lower, c.triggers.Visualization),
		DesignConcept: matchAny(lower, c.triggers.DesignConcept),
		Sheet:         matchAny(lower, c.triggers.Sheet),
		Code:          matchAny(lower, c.triggers.Code),
		Revision:      matchAny(lower, c.triggers.Revision),
	}
}

func matchAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
