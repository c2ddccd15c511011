package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorly-ai-api/internal/domain/entity"
	"interiorly-ai-api/internal/infrastructure/persistence/memory"
)

func newTestSelector(repo *memory.ArtifactRepo) *ToolSelector {
	if repo == nil {
		repo = memory.NewArtifactRepo()
	}
	return NewToolSelector(NewKeywordClassifier(testTriggers()), testPolicy(), repo)
}

func userTurn(content string, at time.Time, artifactIDs ...string) entity.ConversationTurn {
	return entity.ConversationTurn{Role: entity.RoleUser, Content: content, ArtifactIDs: artifactIDs, CreatedAt: at}
}

func assistantTurn(content string, at time.Time, artifactIDs ...string) entity.ConversationTurn {
	return entity.ConversationTurn{Role: entity.RoleAssistant, Content: content, ArtifactIDs: artifactIDs, CreatedAt: at}
}

func TestSelectActionReasoningVariantAlwaysReplies(t *testing.T) {
	selector := newTestSelector(nil)
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns:          []entity.ConversationTurn{userTurn("Show me a cozy reading nook", time.Now())},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantReasoning)
	assert.Equal(t, ActionReply, action.Type)
}

func TestSelectActionEmptyTurnReplies(t *testing.T) {
	selector := newTestSelector(nil)

	action := selector.SelectAction(context.Background(), &entity.ConversationContext{ConversationID: "c1"}, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)

	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns:          []entity.ConversationTurn{userTurn("   ", time.Now())},
	}
	action = selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)
}

func TestSelectActionVisualization(t *testing.T) {
	selector := newTestSelector(nil)
	content := "Show me a cozy reading nook with warm lighting"
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns:          []entity.ConversationTurn{userTurn(content, time.Now())},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionGenerateImage, action.Type)
	assert.Equal(t, content, action.Prompt)
}

func TestSelectActionCreateDocumentKinds(t *testing.T) {
	selector := newTestSelector(nil)

	tests := []struct {
		content string
		kind    entity.ArtifactKind
	}{
		{"Can you put together a budget for redoing my bedroom", entity.ArtifactKindSheet},
		{"Calculate how much paint I need for a 12x15 room", entity.ArtifactKindCode},
		{"I want a full design concept for my open-plan kitchen", entity.ArtifactKindText},
	}

	for _, tt := range tests {
		convo := &entity.ConversationContext{
			ConversationID: "c1",
			Turns:          []entity.ConversationTurn{userTurn(tt.content, time.Now())},
		}
		action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
		assert.Equal(t, ActionCreateDocument, action.Type, tt.content)
		assert.Equal(t, tt.kind, action.Kind, tt.content)
		assert.Equal(t, tt.content, action.Briefing)
	}
}

func TestSelectActionInlineBudgetOverflow(t *testing.T) {
	selector := newTestSelector(nil)

	// 无触发词，但列表条目超出内联阈值
	items := make([]string, 0, 8)
	items = append(items, "Here is what I have in mind for the room:")
	for i := 0; i < 7; i++ {
		items = append(items, "- one more furnishing idea")
	}
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns:          []entity.ConversationTurn{userTurn(strings.Join(items, "\n"), time.Now())},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionCreateDocument, action.Type)
	assert.Equal(t, entity.ArtifactKindText, action.Kind)
}

func TestSelectActionPlainQuestionReplies(t *testing.T) {
	selector := newTestSelector(nil)
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns:          []entity.ConversationTurn{userTurn("What colors go well with walnut furniture?", time.Now())},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)
}

func TestSelectActionRevisionAfterFeedback(t *testing.T) {
	repo := memory.NewArtifactRepo()
	selector := newTestSelector(repo)

	artifact := &entity.Artifact{
		ConversationID: "c1",
		Kind:           entity.ArtifactKindText,
		Content:        "A scandinavian living room concept.",
	}
	require.NoError(t, repo.Create(context.Background(), artifact))

	// 助手回复发生在构件写入之后，用户已看到过该构件
	seen := time.Now().Add(time.Minute)
	content := "Actually, adjust the rug placement"
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns: []entity.ConversationTurn{
			userTurn("Design my living room", seen.Add(-2*time.Minute)),
			assistantTurn("Here is a concept", seen, artifact.ID),
			userTurn(content, seen.Add(time.Minute)),
		},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionUpdateDocument, action.Type)
	assert.Equal(t, artifact.ID, action.ArtifactID)
	assert.Equal(t, content, action.Instructions)
}

func TestSelectActionRevisionWithoutFeedbackFallsBack(t *testing.T) {
	repo := memory.NewArtifactRepo()
	selector := newTestSelector(repo)

	artifact := &entity.Artifact{
		ConversationID: "c1",
		Kind:           entity.ArtifactKindText,
		Content:        "A concept.",
	}
	require.NoError(t, repo.Create(context.Background(), artifact))

	// 没有任何助手回复：修订语言不可能指向已见过的构件
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns: []entity.ConversationTurn{
			userTurn("Actually, adjust it please", time.Now(), artifact.ID),
		},
	}
	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)

	// 助手回复早于构件的最近写入：仍处于同一派发周期
	stale := time.Now().Add(-time.Hour)
	convo = &entity.ConversationContext{
		ConversationID: "c1",
		Turns: []entity.ConversationTurn{
			userTurn("Design my living room", stale.Add(-time.Minute)),
			assistantTurn("Working on it", stale, artifact.ID),
			userTurn("Actually, adjust it please", time.Now()),
		},
	}
	action = selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)
}

func TestSelectActionRevisionMissingArtifactFallsBack(t *testing.T) {
	selector := newTestSelector(nil)

	seen := time.Now()
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns: []entity.ConversationTurn{
			assistantTurn("Here you go", seen, "gone"),
			userTurn("Actually, adjust it please", seen.Add(time.Minute)),
		},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)
}

func TestSelectActionRepoFailureFallsBack(t *testing.T) {
	repo := &failingRepo{ArtifactRepository: memory.NewArtifactRepo()}
	selector := NewToolSelector(NewKeywordClassifier(testTriggers()), testPolicy(), repo)

	seen := time.Now()
	convo := &entity.ConversationContext{
		ConversationID: "c1",
		Turns: []entity.ConversationTurn{
			assistantTurn("Here you go", seen, "a1"),
			userTurn("Actually, adjust it please", seen.Add(time.Minute)),
		},
	}

	action := selector.SelectAction(context.Background(), convo, entity.VariantChat)
	assert.Equal(t, ActionReply, action.Type)
}
