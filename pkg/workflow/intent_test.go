package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/generation"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/protocol"
)

// staticResolver hands out a single generator regardless of provider id.
type staticResolver struct {
	generator protocol.Generator
	err       error
}

func (r *staticResolver) Generator(string) (protocol.Generator, error) {
	return r.generator, r.err
}

func intentDefs() []models.IntentDefinition {
	return []models.IntentDefinition{
		{Name: "summarize", Synonyms: []string{"recap"}, Enabled: true},
		{Name: "email", Synonyms: []string{"send a mail"}, Enabled: true, TargetWorkflowID: "wf-email"},
		{Name: "ignore", Enabled: true, TargetWorkflowID: models.DoNothingTargetID},
		{Name: "archive", Enabled: false},
	}
}

func TestExtractKeywords(t *testing.T) {
	extractor := NewIntentExtractor(&staticResolver{}, slog.Default())

	workflows := []*models.Workflow{
		{ID: "wf-summary", Name: "Summarize"},
	}

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyKeywords,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "please recap the meeting and email the team", workflows)

	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.Equal(t, "summarize", intents[0].Action)
	assert.Equal(t, "wf-summary", intents[0].TargetWorkflowID)

	assert.Equal(t, "email", intents[1].Action)
	assert.Equal(t, "wf-email", intents[1].TargetWorkflowID)
}

func TestExtractKeywordsSkipsDisabledIntents(t *testing.T) {
	extractor := NewIntentExtractor(&staticResolver{}, slog.Default())

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyKeywords,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "archive this", nil)

	require.NoError(t, err)
	assert.Empty(t, intents)
}

func TestExtractLLM(t *testing.T) {
	generator := &generation.MockGenerator{
		Response: "summarize | - | 0.9\nemail | the team | 0.8\nunknown | x | 0.9\nsummarize-ish",
	}
	extractor := NewIntentExtractor(&staticResolver{generator: generator}, slog.Default())

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyLLM,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "note to self recap and email", nil)

	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.Equal(t, "summarize", intents[0].Action)
	assert.Empty(t, intents[0].Parameter)
	assert.InDelta(t, 0.9, intents[0].Confidence, 1e-9)

	assert.Equal(t, "email", intents[1].Action)
	assert.Equal(t, "the team", intents[1].Parameter)
}

func TestExtractLLMDiscardsLowConfidence(t *testing.T) {
	generator := &generation.MockGenerator{
		Response: "summarize | - | 0.2\nemail | - | 0.9",
	}
	extractor := NewIntentExtractor(&staticResolver{generator: generator}, slog.Default())

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyLLM,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "anything", nil)

	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "email", intents[0].Action)
}

func TestExtractHybridFallsBackToKeywords(t *testing.T) {
	extractor := NewIntentExtractor(&staticResolver{err: errors.New("no provider configured")}, slog.Default())

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyHybrid,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "quick recap please", nil)

	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "summarize", intents[0].Action)
}

func TestExtractHybridMergeKeepsLLMFirst(t *testing.T) {
	generator := &generation.MockGenerator{
		Response: "summarize | from the model | 0.9",
	}
	extractor := NewIntentExtractor(&staticResolver{generator: generator}, slog.Default())

	intents, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy:            models.IntentStrategyHybrid,
		Intents:             intentDefs(),
		ConfidenceThreshold: 0.5,
	}, "recap and email everyone", nil)

	require.NoError(t, err)
	require.Len(t, intents, 2)

	// The LLM's summarize wins over the keyword duplicate; the keyword email
	// fills in what the model missed.
	assert.Equal(t, "summarize", intents[0].Action)
	assert.Equal(t, "from the model", intents[0].Parameter)
	assert.Equal(t, "email", intents[1].Action)
}

func TestExtractRejectsUnknownStrategy(t *testing.T) {
	extractor := NewIntentExtractor(&staticResolver{}, slog.Default())

	_, err := extractor.Extract(context.Background(), &models.IntentExtractConfig{
		Strategy: "oracle",
	}, "anything", nil)

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestResolveTarget(t *testing.T) {
	workflows := []*models.Workflow{
		{ID: "wf-1", Name: "Summarize"},
		{ID: "wf-2", Name: "Recap"},
	}

	tests := []struct {
		name     string
		action   string
		expected string
	}{
		{"explicit target wins", "email", "wf-email"},
		{"do-nothing sentinel preserved", "ignore", models.DoNothingTargetID},
		{"name match against workflow set", "summarize", "wf-1"},
		{"undefined action has no target", "teleport", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveTarget(tt.action, intentDefs(), workflows))
		})
	}
}
