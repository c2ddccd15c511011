package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"interiorly-ai-api/internal/application/assistant/prompt"
	"interiorly-ai-api/internal/domain/entity"
)

// 暴露给语言模型集成的工具名
const (
	toolNameCreateDocument = "createDocument"
	toolNameUpdateDocument = "updateDocument"
	toolNameGenerateImage  = "generateImage"
)

// DispatchInput 单个派发周期的上下文，工具执行时共享
type DispatchInput struct {
	ConversationID      string
	LastSeenAssistantAt time.Time
}

// createDocumentTool 建档工具：语言模型给出类型与简报，内容由生成端口产出
type createDocumentTool struct {
	in        *DispatchInput
	lifecycle *LifecycleManager
	assembler *prompt.Assembler
	generator ContentGenerator
}

func newCreateDocumentTool(in *DispatchInput, lifecycle *LifecycleManager, assembler *prompt.Assembler, generator ContentGenerator) *createDocumentTool {
	return &createDocumentTool{in: in, lifecycle: lifecycle, assembler: assembler, generator: generator}
}

func (t *createDocumentTool) GetType() string { return toolNameCreateDocument }

func (t *createDocumentTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameCreateDocument,
		Desc: "Create a document artifact shown beside the conversation. Use for design concepts, style guides, room plans (text), shopping lists, budgets, timelines (sheet), or interior design calculations (code). Do not use for visualization requests.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"kind": {
				Type:     schema.String,
				Desc:     "Artifact kind",
				Required: true,
				Enum:     []string{string(entity.ArtifactKindText), string(entity.ArtifactKindSheet), string(entity.ArtifactKindCode)},
			},
			"briefing": {
				Type:     schema.String,
				Desc:     "What the document should contain, with enough context from the conversation",
				Required: true,
			},
		}),
	}, nil
}

func (t *createDocumentTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Kind     string `json:"kind"`
		Briefing string `json:"briefing"`
	}
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	kind := entity.ArtifactKind(strings.TrimSpace(args.Kind))
	briefing := strings.TrimSpace(args.Briefing)
	if !entity.ValidKind(kind) || kind == entity.ArtifactKindImage {
		return toolError(fmt.Sprintf("invalid kind: %s", args.Kind)), nil
	}
	if briefing == "" {
		return toolError("briefing is required"), nil
	}

	instructions, err := t.assembler.Assemble(entity.VariantChat, kind)
	if err != nil {
		return toolError(err.Error()), nil
	}
	content, err := t.generator.GenerateContent(ctx, instructions, briefing)
	if err != nil {
		return toolError(err.Error()), nil
	}

	artifact, err := t.lifecycle.Create(ctx, t.in.ConversationID, kind, content)
	if err != nil {
		return toolError(err.Error()), nil
	}

	out := struct {
		ArtifactID string `json:"artifact_id"`
		Kind       string `json:"kind"`
		Version    int    `json:"version"`
	}{artifact.ID, string(artifact.Kind), artifact.Version}
	b, _ := json.Marshal(out)
	return string(b), nil
}

// updateDocumentTool 修订工具：仅在用户对文档给出反馈之后可用
type updateDocumentTool struct {
	in        *DispatchInput
	lifecycle *LifecycleManager
	assembler *prompt.Assembler
	generator ContentGenerator
}

func newUpdateDocumentTool(in *DispatchInput, lifecycle *LifecycleManager, assembler *prompt.Assembler, generator ContentGenerator) *updateDocumentTool {
	return &updateDocumentTool{in: in, lifecycle: lifecycle, assembler: assembler, generator: generator}
}

func (t *updateDocumentTool) GetType() string { return toolNameUpdateDocument }

func (t *updateDocumentTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameUpdateDocument,
		Desc: "Revise an existing document artifact based on user feedback. Only use after the user has seen the document and asked for changes. Never use immediately after creating a document.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"artifact_id": {
				Type:     schema.String,
				Desc:     "ID of the artifact to revise",
				Required: true,
			},
			"instructions": {
				Type:     schema.String,
				Desc:     "The specific changes the user asked for",
				Required: true,
			},
		}),
	}, nil
}

func (t *updateDocumentTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		ArtifactID   string `json:"artifact_id"`
		Instructions string `json:"instructions"`
	}
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	artifactID := strings.TrimSpace(args.ArtifactID)
	instructions := strings.TrimSpace(args.Instructions)
	if artifactID == "" || instructions == "" {
		return toolError("artifact_id and instructions are required"), nil
	}

	current, err := t.lifecycle.Get(ctx, artifactID)
	if err != nil {
		return toolError(err.Error()), nil
	}

	updateInstructions, err := t.assembler.UpdateInstruction(current.Kind, current.Content)
	if err != nil {
		return toolError(err.Error()), nil
	}
	content, err := t.generator.GenerateContent(ctx, updateInstructions, instructions)
	if err != nil {
		return toolError(err.Error()), nil
	}

	updated, err := t.lifecycle.Update(ctx, artifactID, content, t.in.LastSeenAssistantAt)
	if err != nil {
		return toolError(err.Error()), nil
	}

	out := struct {
		ArtifactID string `json:"artifact_id"`
		Kind       string `json:"kind"`
		Version    int    `json:"version"`
	}{updated.ID, string(updated.Kind), updated.Version}
	b, _ := json.Marshal(out)
	return string(b), nil
}

// generateImageTool 可视化工具
type generateImageTool struct {
	in        *DispatchInput
	pipeline  *ImageGenerationPipeline
	lifecycle *LifecycleManager
}

func newGenerateImageTool(in *DispatchInput, pipeline *ImageGenerationPipeline, lifecycle *LifecycleManager) *generateImageTool {
	return &generateImageTool{in: in, pipeline: pipeline, lifecycle: lifecycle}
}

func (t *generateImageTool) GetType() string { return toolNameGenerateImage }

func (t *generateImageTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: toolNameGenerateImage,
		Desc: "Generate a photorealistic interior design image. Use for any request to see, visualize, or show how a design would look.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"prompt": {
				Type:     schema.String,
				Desc:     "Detailed image prompt following the image generation guidelines",
				Required: true,
			},
			"size": {
				Type: schema.String,
				Desc: "Image size, defaults to 1024x1024",
				Enum: []string{"1024x1024", "1792x1024", "1024x1792"},
			},
			"quality": {
				Type: schema.String,
				Desc: "Image quality, defaults to standard",
				Enum: []string{"standard", "hd"},
			},
			"style": {
				Type: schema.String,
				Desc: "Image style, defaults to vivid",
				Enum: []string{"vivid", "natural"},
			},
		}),
	}, nil
}

func (t *generateImageTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Prompt  string `json:"prompt"`
		Size    string `json:"size,omitempty"`
		Quality string `json:"quality,omitempty"`
		Style   string `json:"style,omitempty"`
	}
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return toolError("prompt is required"), nil
	}

	result, err := t.pipeline.Generate(ctx, t.in.ConversationID, args.Prompt, ImageOptions{
		Size:    args.Size,
		Quality: args.Quality,
		Style:   args.Style,
	})
	if err != nil {
		return toolError(err.Error()), nil
	}

	if _, err := t.lifecycle.CreateImage(ctx, t.in.ConversationID, result.URL, result.PromptUsed); err != nil {
		return toolError(err.Error()), nil
	}

	b, _ := json.Marshal(result)
	return string(b), nil
}

// Tools 组装一个派发周期内可用的全部工具
func Tools(in *DispatchInput, lifecycle *LifecycleManager, assembler *prompt.Assembler, generator ContentGenerator, pipeline *ImageGenerationPipeline) []tool.InvokableTool {
	return []tool.InvokableTool{
		newCreateDocumentTool(in, lifecycle, assembler, generator),
		newUpdateDocumentTool(in, lifecycle, assembler, generator),
		newGenerateImageTool(in, pipeline, lifecycle),
	}
}

func toolError(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
