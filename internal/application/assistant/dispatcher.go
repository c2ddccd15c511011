package assistant

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"interiorly-ai-api/pkg/logger"

	"interiorly-ai-api/internal/application/assistant/prompt"
	"interiorly-ai-api/internal/domain/entity"
)

var dispatchTracer = otel.Tracer("assistant.dispatcher")

// DispatchResult 一个派发周期的产出
type DispatchResult struct {
	Action       ActionType       `json:"action"`
	Instructions string           `json:"instructions"`
	Artifact     *entity.Artifact `json:"artifact,omitempty"`
	Image        *ImageResult     `json:"image,omitempty"`
}

// Dispatcher 派发器：用户轮次 → 选择能力 → 组装指令 → 执行管线或生命周期操作。
// 每次调用相互独立，轮次之间不共享内存状态。
type Dispatcher struct {
	selector  *ToolSelector
	assembler *prompt.Assembler
	lifecycle *LifecycleManager
	images    *ImageGenerationPipeline
	generator ContentGenerator
}

// NewDispatcher 创建派发器
func NewDispatcher(selector *ToolSelector, assembler *prompt.Assembler, lifecycle *LifecycleManager, images *ImageGenerationPipeline, generator ContentGenerator) *Dispatcher {
	return &Dispatcher{
		selector:  selector,
		assembler: assembler,
		lifecycle: lifecycle,
		images:    images,
		generator: generator,
	}
}

// Dispatch 处理一个用户轮次
func (d *Dispatcher) Dispatch(ctx context.Context, convo *entity.ConversationContext, variant entity.ModelVariant) (*DispatchResult, error) {
	ctx, span := dispatchTracer.Start(ctx, "Dispatcher.Dispatch")
	span.SetAttributes(
		attribute.String("conversation.id", convo.ConversationID),
		attribute.String("model.variant", string(variant)),
	)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.ConversationIDKey, convo.ConversationID)

	action := d.selector.SelectAction(ctx, convo, variant)

	instructions, err := d.assembler.Assemble(variant, d.kindHint(action))
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{
		Action:       action.Type,
		Instructions: instructions,
	}

	switch action.Type {
	case ActionCreateDocument:
		content, err := d.generator.GenerateContent(ctx, instructions, action.Briefing)
		if err != nil {
			return nil, err
		}
		artifact, err := d.lifecycle.Create(ctx, convo.ConversationID, action.Kind, content)
		if err != nil {
			return nil, err
		}
		result.Artifact = artifact

	case ActionUpdateDocument:
		current, err := d.lifecycle.Get(ctx, action.ArtifactID)
		if err != nil {
			return nil, err
		}
		updateInstructions, err := d.assembler.UpdateInstruction(current.Kind, current.Content)
		if err != nil {
			return nil, err
		}
		content, err := d.generator.GenerateContent(ctx, updateInstructions, action.Instructions)
		if err != nil {
			return nil, err
		}
		artifact, err := d.lifecycle.Update(ctx, action.ArtifactID, content, convo.LastAssistantTurnAt())
		if err != nil {
			return nil, err
		}
		result.Artifact = artifact

	case ActionGenerateImage:
		image, err := d.images.Generate(ctx, convo.ConversationID, action.Prompt, ImageOptions{})
		if err != nil {
			return nil, err
		}
		artifact, err := d.lifecycle.CreateImage(ctx, convo.ConversationID, image.URL, image.PromptUsed)
		if err != nil {
			return nil, err
		}
		result.Image = image
		result.Artifact = artifact
	}

	logger.Info(ctx, "dispatch cycle completed", "action", string(action.Type))
	return result, nil
}

// kindHint 根据动作推导创作指南提示
func (d *Dispatcher) kindHint(action Action) entity.ArtifactKind {
	switch action.Type {
	case ActionCreateDocument:
		return action.Kind
	case ActionGenerateImage:
		return entity.ArtifactKindImage
	default:
		return ""
	}
}
