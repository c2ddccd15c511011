package assistant

import (
	"context"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"interiorly-ai-api/pkg/logger"
	"interiorly-ai-api/pkg/metrics"

	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
)

var selectorTracer = otel.Tracer("assistant.selector")

// ToolSelector 能力选择器。只做分类，不产生任何副作用。
// 规则按优先级排列，歧义输入一律落到内联回复，绝不静默建档。
type ToolSelector struct {
	classifier Classifier
	policy     config.PolicyConfig
	artifacts  repository.ArtifactRepository
}

// NewToolSelector 创建能力选择器
func NewToolSelector(classifier Classifier, policy config.PolicyConfig, artifacts repository.ArtifactRepository) *ToolSelector {
	return &ToolSelector{
		classifier: classifier,
		policy:     policy,
		artifacts:  artifacts,
	}
}

// SelectAction 针对最新一轮用户发言选择能力。
//
// 优先级：
//  1. 推理变体禁用全部构件动作
//  2. 修订语言 + 引用构件 + 用户已见过至少一次回复 → 修订
//  3. 可视化触发词 → 生成图像
//  4. 设计概念触发词或内联放不下的结构化内容 → 建档
//  5. 其余 → 内联回复
func (s *ToolSelector) SelectAction(ctx context.Context, convo *entity.ConversationContext, variant entity.ModelVariant) Action {
	ctx, span := selectorTracer.Start(ctx, "ToolSelector.SelectAction")
	defer span.End()

	action := s.selectAction(ctx, convo, variant)

	span.SetAttributes(attribute.String("assistant.action", string(action.Type)))
	metrics.ActionSelectedTotal.WithLabelValues(string(action.Type)).Inc()
	return action
}

func (s *ToolSelector) selectAction(ctx context.Context, convo *entity.ConversationContext, variant entity.ModelVariant) Action {
	if variant.IsReasoning() {
		return Reply()
	}

	latest := convo.LatestUserTurn()
	if latest == nil || strings.TrimSpace(latest.Content) == "" {
		return Reply()
	}

	signals := s.classifier.Classify(latest.Content)

	if signals.Revision {
		if artifactID := s.updatableArtifactID(ctx, convo); artifactID != "" {
			return UpdateDocument(artifactID, latest.Content)
		}
	}

	if signals.Visualization {
		return GenerateImage(latest.Content)
	}

	if signals.DesignConcept || signals.Sheet || signals.Code || s.exceedsInlineBudget(latest.Content) {
		return CreateDocument(s.chooseKind(signals), latest.Content)
	}

	return Reply()
}

// updatableArtifactID 校验被引用的构件是否可修订：
// 构件必须存在，且其最近一次写入严格早于用户已看到的助手回复。
// 该时序约束保证同一派发周期内不会先建档再修订。
func (s *ToolSelector) updatableArtifactID(ctx context.Context, convo *entity.ConversationContext) string {
	artifactID := convo.LatestReferencedArtifactID()
	if artifactID == "" {
		return ""
	}

	lastSeen := convo.LastAssistantTurnAt()
	if lastSeen.IsZero() {
		return ""
	}

	artifact, err := s.artifacts.GetByID(ctx, artifactID)
	if err != nil {
		logger.Warn(ctx, "failed to load referenced artifact, falling back to reply",
			"artifact_id", artifactID)
		return ""
	}
	if artifact == nil {
		return ""
	}
	if !artifact.LastUpdatedAt.Before(lastSeen) {
		return ""
	}
	return artifactID
}

// chooseKind 按内容形态选择构件类型：
// 数值/表格 → sheet，自包含计算 → code，其余叙述性内容 → text
func (s *ToolSelector) chooseKind(signals Classification) entity.ArtifactKind {
	switch {
	case signals.Sheet:
		return entity.ArtifactKindSheet
	case signals.Code:
		return entity.ArtifactKindCode
	default:
		return entity.ArtifactKindText
	}
}

// exceedsInlineBudget 估算请求内容是否超出内联回答的容量阈值。
// 阈值可配置（assistant.policy），不是硬性契约。
func (s *ToolSelector) exceedsInlineBudget(text string) bool {
	if s.policy.MinLineItems > 0 && countLineItems(text) > s.policy.MinLineItems {
		return true
	}
	if s.policy.MaxInlineWords > 0 && countWords(text) > s.policy.MaxInlineWords {
		return true
	}
	return false
}

func countLineItems(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			count++
			continue
		}
		if len(trimmed) > 1 && unicode.IsDigit(rune(trimmed[0])) && (trimmed[1] == '.' || trimmed[1] == ')') {
			count++
		}
	}
	return count
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
