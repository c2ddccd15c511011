package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorly-ai-api/internal/application/assistant/prompt"
	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
	"interiorly-ai-api/internal/infrastructure/imaging"
	"interiorly-ai-api/internal/infrastructure/persistence/memory"
)

type toolsFixture struct {
	tools     []tool.InvokableTool
	in        *DispatchInput
	repo      *memory.ArtifactRepo
	lifecycle *LifecycleManager
	generator *fakeGenerator
	images    *fakeImageClient
	store     *fakeBlobStore
}

func newToolsFixture(t *testing.T) *toolsFixture {
	t.Helper()

	repo := memory.NewArtifactRepo()
	generator := &fakeGenerator{content: "generated content"}
	images := &fakeImageClient{img: &imaging.GeneratedImage{Data: []byte("png")}}
	store := &fakeBlobStore{url: "https://assets.example.com/generated.png"}

	lifecycle := NewLifecycleManager(repo, nil)
	in := &DispatchInput{ConversationID: "c1"}

	return &toolsFixture{
		tools:     Tools(in, lifecycle, prompt.NewAssembler(prompt.NewRegistry()), generator, NewImageGenerationPipeline(images, store)),
		in:        in,
		repo:      repo,
		lifecycle: lifecycle,
		generator: generator,
		images:    images,
		store:     store,
	}
}

func (f *toolsFixture) tool(t *testing.T, name string) tool.InvokableTool {
	t.Helper()

	for _, tl := range f.tools {
		info, err := tl.Info(context.Background())
		require.NoError(t, err)
		if info.Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

// run 执行工具并解析返回的 JSON。
// 工具的业务失败以 {"error": ...} 载荷返回而非 error，
// 模型据此在后续轮次自行纠正。
func runTool(t *testing.T, tl tool.InvokableTool, args string) map[string]interface{} {
	t.Helper()

	out, err := tl.InvokableRun(context.Background(), args)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	return result
}

func TestToolsExposeAllOperations(t *testing.T) {
	f := newToolsFixture(t)
	require.Len(t, f.tools, 3)

	names := make([]string, 0, len(f.tools))
	for _, tl := range f.tools {
		info, err := tl.Info(context.Background())
		require.NoError(t, err)
		names = append(names, info.Name)
	}
	assert.ElementsMatch(t, []string{"createDocument", "updateDocument", "generateImage"}, names)
}

func TestCreateDocumentTool(t *testing.T) {
	f := newToolsFixture(t)
	f.generator.content = "Item,Price\nSofa,1200"

	result := runTool(t, f.tool(t, toolNameCreateDocument), `{"kind":"sheet","briefing":"Budget for the living room"}`)

	assert.NotContains(t, result, "error")
	assert.NotEmpty(t, result["artifact_id"])
	assert.Equal(t, "sheet", result["kind"])
	assert.Equal(t, float64(1), result["version"])

	// 内容生成走组装后的系统指令，简报原样透传
	assert.Contains(t, f.generator.gotInstructions, "You are Interiorly")
	assert.Equal(t, "Budget for the living room", f.generator.gotBriefing)

	stored, err := f.repo.GetByID(context.Background(), result["artifact_id"].(string))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Item,Price\nSofa,1200", stored.Content)
}

func TestCreateDocumentToolRejectsInvalidKind(t *testing.T) {
	f := newToolsFixture(t)
	tl := f.tool(t, toolNameCreateDocument)

	// image 类型走独立的图像工具
	result := runTool(t, tl, `{"kind":"image","briefing":"a cozy nook"}`)
	assert.Contains(t, result["error"], "invalid kind")

	result = runTool(t, tl, `{"kind":"video","briefing":"anything"}`)
	assert.Contains(t, result["error"], "invalid kind")

	page, err := f.lifecycle.List(context.Background(), "c1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreateDocumentToolRejectsMissingBriefing(t *testing.T) {
	f := newToolsFixture(t)

	result := runTool(t, f.tool(t, toolNameCreateDocument), `{"kind":"text","briefing":"  "}`)
	assert.Contains(t, result["error"], "briefing is required")
}

func TestCreateDocumentToolInvalidArguments(t *testing.T) {
	f := newToolsFixture(t)

	result := runTool(t, f.tool(t, toolNameCreateDocument), `not json at all`)
	assert.Contains(t, result["error"], "invalid arguments")
}

func TestCreateDocumentToolMalformedGeneratedContent(t *testing.T) {
	f := newToolsFixture(t)
	// 生成内容不满足 sheet 的结构契约
	f.generator.content = "just plain prose"

	result := runTool(t, f.tool(t, toolNameCreateDocument), `{"kind":"sheet","briefing":"Budget"}`)
	assert.Contains(t, result["error"], "content does not match artifact kind")

	page, err := f.lifecycle.List(context.Background(), "c1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestUpdateDocumentTool(t *testing.T) {
	f := newToolsFixture(t)

	artifact, err := f.lifecycle.Create(context.Background(), "c1", entity.ArtifactKindText, "first draft")
	require.NoError(t, err)

	// 用户已看到带该构件的助手回复
	f.in.LastSeenAssistantAt = time.Now().Add(time.Minute)
	f.generator.content = "second draft"

	result := runTool(t, f.tool(t, toolNameUpdateDocument),
		`{"artifact_id":"`+artifact.ID+`","instructions":"make it warmer"}`)

	assert.NotContains(t, result, "error")
	assert.Equal(t, artifact.ID, result["artifact_id"])
	assert.Equal(t, float64(2), result["version"])

	// 修订指令内嵌当前内容
	assert.Contains(t, f.generator.gotInstructions, "first draft")
	assert.Equal(t, "make it warmer", f.generator.gotBriefing)

	stored, err := f.repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, "second draft", stored.Content)
}

func TestUpdateDocumentToolBeforeFeedback(t *testing.T) {
	f := newToolsFixture(t)

	artifact, err := f.lifecycle.Create(context.Background(), "c1", entity.ArtifactKindText, "first draft")
	require.NoError(t, err)

	// 同一派发周期内模型连续调用建档与修订
	f.in.LastSeenAssistantAt = time.Time{}
	result := runTool(t, f.tool(t, toolNameUpdateDocument),
		`{"artifact_id":"`+artifact.ID+`","instructions":"tweak it"}`)
	assert.Contains(t, result["error"], "artifact has not been reviewed yet")

	stored, err := f.repo.GetByID(context.Background(), artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestUpdateDocumentToolMissingArtifact(t *testing.T) {
	f := newToolsFixture(t)
	f.in.LastSeenAssistantAt = time.Now()

	result := runTool(t, f.tool(t, toolNameUpdateDocument),
		`{"artifact_id":"missing","instructions":"tweak it"}`)
	assert.Contains(t, result["error"], "artifact not found")
}

func TestUpdateDocumentToolMissingArguments(t *testing.T) {
	f := newToolsFixture(t)

	result := runTool(t, f.tool(t, toolNameUpdateDocument), `{"artifact_id":"","instructions":""}`)
	assert.Contains(t, result["error"], "artifact_id and instructions are required")
}

func TestGenerateImageTool(t *testing.T) {
	f := newToolsFixture(t)

	result := runTool(t, f.tool(t, toolNameGenerateImage),
		`{"prompt":"a cozy reading nook","size":"1792x1024","quality":"hd"}`)

	assert.NotContains(t, result, "error")
	assert.Equal(t, "https://assets.example.com/generated.png", result["url"])
	assert.Equal(t, "Interior design: a cozy reading nook", result["prompt"])
	assert.Equal(t, "1792x1024", f.images.gotOpts.Size)
	assert.Equal(t, "hd", f.images.gotOpts.Quality)

	// 生成结果同时落为 image 构件
	page, err := f.lifecycle.List(context.Background(), "c1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.ArtifactKindImage, page.Items[0].Kind)
	assert.Equal(t, "Interior design: a cozy reading nook", page.Items[0].Prompt)
}

func TestGenerateImageToolPipelineFailure(t *testing.T) {
	f := newToolsFixture(t)
	f.images.err = errors.New("model unavailable")

	result := runTool(t, f.tool(t, toolNameGenerateImage), `{"prompt":"a cozy reading nook"}`)
	assert.Contains(t, result["error"], "failed to generate interior design image")

	// 失败不留下半成品资产与构件
	assert.Empty(t, f.store.puts)
	page, err := f.lifecycle.List(context.Background(), "c1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestGenerateImageToolMissingPrompt(t *testing.T) {
	f := newToolsFixture(t)

	result := runTool(t, f.tool(t, toolNameGenerateImage), `{"prompt":"   "}`)
	assert.Contains(t, result["error"], "prompt is required")
}
