package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"interiorly-ai-api/pkg/metrics"

	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/infrastructure/llm"
)

// EinoContentGenerator 基于 Eino ChatModel 的文档内容生成实现
type EinoContentGenerator struct {
	factory  *llm.EinoFactory
	provider string
	model    string
}

// NewEinoContentGenerator 创建内容生成器
func NewEinoContentGenerator(factory *llm.EinoFactory, cfg *config.LLMConfig) *EinoContentGenerator {
	modelName := ""
	if provider, ok := cfg.Providers[cfg.DefaultProvider]; ok {
		modelName = provider.Model
	}
	return &EinoContentGenerator{
		factory:  factory,
		provider: cfg.DefaultProvider,
		model:    modelName,
	}
}

// GenerateContent 以 instructions 为系统指令、briefing 为用户输入生成内容
func (g *EinoContentGenerator) GenerateContent(ctx context.Context, instructions string, briefing string) (string, error) {
	chatModel, err := g.factory.Default(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(instructions),
		schema.UserMessage(briefing),
	})
	metrics.LLMCallDuration.WithLabelValues(g.provider, g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("content generation failed: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(g.provider, g.model, "ok").Inc()

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", fmt.Errorf("content generation returned empty response")
	}
	return content, nil
}
