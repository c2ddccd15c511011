package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/domain/repository"
	"interiorly-ai-api/internal/infrastructure/imaging"
)

func testTriggers() config.TriggersConfig {
	return config.TriggersConfig{
		Visualization: []string{"show me", "visualize", "picture of", "image of"},
		DesignConcept: []string{"design concept", "room plan", "style guide", "makeover plan"},
		Sheet:         []string{"budget", "shopping list", "timeline", "spreadsheet"},
		Code:          []string{"calculate", "how much paint", "square footage"},
		Revision:      []string{"actually", "instead", "adjust", "revise", "make the"},
	}
}

func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		MinLineItems:   5,
		MaxInlineWords: 100,
	}
}

type blobPut struct {
	key         string
	data        []byte
	contentType string
}

// fakeBlobStore 可编程的对象存储桩
type fakeBlobStore struct {
	mu   sync.Mutex
	puts []blobPut
	url  string
	err  error
}

func (s *fakeBlobStore) Put(_ context.Context, key string, data []byte, contentType string) (*entity.StoredAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.puts = append(s.puts, blobPut{key: key, data: data, contentType: contentType})

	url := s.url
	if url == "" {
		url = "https://assets.example.com/" + key
	}
	return &entity.StoredAsset{
		Key:          key,
		URL:          url,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		AccessPolicy: entity.AccessPublic,
		UploadedAt:   time.Now(),
	}, nil
}

// fakeImageClient 可编程的图像模型桩
type fakeImageClient struct {
	img       *imaging.GeneratedImage
	err       error
	gotPrompt string
	gotOpts   imaging.GenerateOptions
}

func (c *fakeImageClient) Generate(_ context.Context, prompt string, opts imaging.GenerateOptions) (*imaging.GeneratedImage, error) {
	c.gotPrompt = prompt
	c.gotOpts = opts
	if c.err != nil {
		return nil, c.err
	}
	return c.img, nil
}

// fakeGenerator 固定产出的内容生成桩
type fakeGenerator struct {
	content         string
	err             error
	gotInstructions string
	gotBriefing     string
}

func (g *fakeGenerator) GenerateContent(_ context.Context, instructions, briefing string) (string, error) {
	g.gotInstructions = instructions
	g.gotBriefing = briefing
	if g.err != nil {
		return "", g.err
	}
	return g.content, nil
}

// fakeCache 进程内缓存桩，记录回源与失效次数
type fakeCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	loads    int
	deletes  []string
	patterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries[key]; ok {
		return data, nil
	}

	value, err := loader()
	if err != nil {
		return nil, err
	}
	c.loads++

	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	c.entries[key] = data
	return data, nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.deletes = append(c.deletes, key)
	}
	return nil
}

func (c *fakeCache) InvalidatePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// conflictingRepo 让比较写入永远失败，模拟并发修订竞争中落败的一方
type conflictingRepo struct {
	repository.ArtifactRepository
}

func (r *conflictingRepo) UpdateContent(_ context.Context, _ string, _ string, _ int) (bool, error) {
	return false, nil
}

// failingRepo 所有读操作都返回底层错误
type failingRepo struct {
	repository.ArtifactRepository
}

func (r *failingRepo) GetByID(_ context.Context, _ string) (*entity.Artifact, error) {
	return nil, errors.New("connection refused")
}
