// Package wire 负责应用的依赖装配
package wire

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/application/assistant/prompt"
	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/infrastructure/imaging"
	"interiorly-ai-api/internal/infrastructure/llm"
	"interiorly-ai-api/internal/infrastructure/persistence/postgres"
	"interiorly-ai-api/internal/infrastructure/persistence/redis"
	"interiorly-ai-api/internal/infrastructure/storage"
	"interiorly-ai-api/internal/interfaces/http/handler"
	"interiorly-ai-api/internal/interfaces/http/router"
)

// App 装配完成的应用
type App struct {
	router *router.Router
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 装配全部依赖，返回应用实例与清理函数
func InitializeApp(_ context.Context, cfg *config.Config) (*App, func(), error) {
	// 基础设施
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pgClient.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	blobStore, err := storage.NewR2Store(&cfg.Storage.R2)
	if err != nil {
		_ = redisClient.Close()
		_ = pgClient.Close()
		return nil, nil, fmt.Errorf("failed to init object storage: %w", err)
	}

	cache := redis.NewCache(redisClient)
	rateLimiter := redis.NewRateLimiter(redisClient)
	imageClient := imaging.NewClient(&cfg.Image)
	llmFactory := llm.NewEinoFactory(cfg)

	// 仓储与应用服务
	artifactRepo := postgres.NewArtifactRepo(pgClient)

	classifier := assistant.NewKeywordClassifier(cfg.Assistant.Triggers)
	selector := assistant.NewToolSelector(classifier, cfg.Assistant.Policy, artifactRepo)
	assembler := prompt.NewAssembler(prompt.NewRegistry())
	lifecycle := assistant.NewLifecycleManager(artifactRepo, cache)
	images := assistant.NewImageGenerationPipeline(imageClient, blobStore)
	uploads := assistant.NewUploadValidationPipeline(blobStore, cfg.Assistant.Upload)
	generator := assistant.NewEinoContentGenerator(llmFactory, &cfg.LLM)
	dispatcher := assistant.NewDispatcher(selector, assembler, lifecycle, images, generator)

	// HTTP 层
	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(pgClient, redisClient),
		Upload:    handler.NewUploadHandler(uploads),
		Assistant: handler.NewAssistantHandler(dispatcher, cfg.Assistant.Suggestions),
		Artifact:  handler.NewArtifactHandler(lifecycle),
	}

	app := &App{
		router: router.New(cfg, handlers, rateLimiter),
	}

	cleanup := func() {
		_ = redisClient.Close()
		_ = pgClient.Close()
	}

	return app, cleanup, nil
}
