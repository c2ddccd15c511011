// Package prompt 管理指令模板的加载与组装
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// SegmentID 指令片段标识
type SegmentID string

const (
	SegmentPersona         SegmentID = "persona"
	SegmentRequestHandling SegmentID = "request_handling"
	SegmentToolGuide       SegmentID = "tool_guide"
	SegmentImageGuide      SegmentID = "image_guide"
	SegmentSheetGuide      SegmentID = "sheet_guide"
	SegmentCodeGuide       SegmentID = "code_guide"
	SegmentUpdateText      SegmentID = "update_text"
	SegmentUpdateSheet     SegmentID = "update_sheet"
	SegmentUpdateCode      SegmentID = "update_code"
)

// Registry 指令片段注册表，进程内只读数据，可安全并发读取
type Registry struct {
	mu    sync.RWMutex
	cache map[SegmentID]string
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[SegmentID]string),
	}
}

// Segment 返回指定片段的文本
func (r *Registry) Segment(id SegmentID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if text, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return text, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if text, ok := r.cache[id]; ok {
		return text, nil
	}

	path, err := resolveSegmentFile(id)
	if err != nil {
		return "", err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return "", err
	}

	r.cache[id] = text
	return text, nil
}

func resolveSegmentFile(id SegmentID) (string, error) {
	switch id {
	case SegmentPersona, SegmentRequestHandling, SegmentToolGuide,
		SegmentImageGuide, SegmentSheetGuide, SegmentCodeGuide,
		SegmentUpdateText, SegmentUpdateSheet, SegmentUpdateCode:
		return fmt.Sprintf("templates/%s.txt", id), nil
	default:
		return "", fmt.Errorf("unknown prompt segment: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
