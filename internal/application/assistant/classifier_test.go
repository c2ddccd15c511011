package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifierCaseInsensitive(t *testing.T) {
	classifier := NewKeywordClassifier(testTriggers())

	signals := classifier.Classify("SHOW ME a reading nook")
	assert.True(t, signals.Visualization)
	assert.False(t, signals.Sheet)
}

func TestKeywordClassifierMultipleSignals(t *testing.T) {
	classifier := NewKeywordClassifier(testTriggers())

	signals := classifier.Classify("Actually, show me the budget instead")
	assert.True(t, signals.Visualization)
	assert.True(t, signals.Sheet)
	assert.True(t, signals.Revision)
	assert.False(t, signals.Code)
	assert.False(t, signals.DesignConcept)
}

func TestKeywordClassifierNoSignals(t *testing.T) {
	classifier := NewKeywordClassifier(testTriggers())

	signals := classifier.Classify("What colors go well with walnut furniture?")
	assert.Equal(t, Classification{}, signals)
}
