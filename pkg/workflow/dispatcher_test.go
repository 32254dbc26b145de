package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/generation"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/protocol"
)

type fakeClipboard struct {
	content string
}

func (f *fakeClipboard) SetClipboard(_ context.Context, content string) (string, error) {
	f.content = content

	return "Copied to clipboard", nil
}

type fakeHTTPCaller struct {
	status  int
	body    string
	request protocol.HTTPRequest
}

func (f *fakeHTTPCaller) Call(_ context.Context, req protocol.HTTPRequest) (*protocol.HTTPResponse, error) {
	f.request = req

	return &protocol.HTTPResponse{StatusCode: f.status, Body: f.body}, nil
}

func dispatcherContext() *models.ExecutionContext {
	ctx := models.NewExecutionContext("the transcript", "Standup", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	ctx.AppendOutput("summary", "three bullet points")

	return ctx
}

func TestDispatchLLMPrependsSystemPrompt(t *testing.T) {
	generator := &generation.MockGenerator{Provider: "openai", Model: "gpt-4o-mini", Response: "done"}
	dispatcher := NewDispatcher(&staticResolver{generator: generator}, Effectors{}, slog.Default())

	step := &models.Step{
		ID:   "llm",
		Type: models.StepTypeLLM,
		Config: &models.LLMConfig{
			Prompt:       "Summarize {{TRANSCRIPT}}",
			SystemPrompt: "You are terse.",
		},
	}

	outcome, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
	require.NoError(t, err)

	assert.Equal(t, "done", outcome.Output)
	assert.Equal(t, "openai", outcome.Provider)
	assert.Equal(t, "gpt-4o-mini", outcome.Model)

	requests := generator.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "System instructions:\nYou are terse.\n\n---\n\nSummarize the transcript", requests[0].Prompt)
}

func TestDispatchClipboardDefaultsToPreviousOutput(t *testing.T) {
	clipboard := &fakeClipboard{}
	dispatcher := NewDispatcher(&staticResolver{}, Effectors{Clipboard: clipboard}, slog.Default())

	step := &models.Step{
		ID:     "copy",
		Type:   models.StepTypeClipboard,
		Config: &models.ClipboardConfig{},
	}

	outcome, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
	require.NoError(t, err)

	assert.Equal(t, "three bullet points", clipboard.content)
	assert.Equal(t, "Copied to clipboard", outcome.Output)
}

func TestDispatchWebhookPayload(t *testing.T) {
	caller := &fakeHTTPCaller{status: 200, body: `{"ok":true}`}
	dispatcher := NewDispatcher(&staticResolver{}, Effectors{HTTP: caller}, slog.Default())

	step := &models.Step{
		ID:   "hook",
		Type: models.StepTypeWebhook,
		Config: &models.WebhookConfig{
			URL:               "https://example.com/hook",
			Headers:           map[string]string{"X-Note": "{{TITLE}}"},
			IncludeTranscript: true,
			IncludeMetadata:   true,
			BodyTemplate:      `{"source":"voxflow"}`,
		},
	}

	outcome, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, outcome.Output)

	assert.Equal(t, "POST", caller.request.Method)
	assert.Equal(t, "application/json", caller.request.Headers["Content-Type"])
	assert.Equal(t, "Standup", caller.request.Headers["X-Note"])

	var payload map[string]any

	require.NoError(t, json.Unmarshal(caller.request.Body, &payload))
	assert.Equal(t, "the transcript", payload["transcript"])
	assert.Equal(t, "Standup", payload["title"])
	assert.Equal(t, "voxflow", payload["source"])

	outputs, ok := payload["outputs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "three bullet points", outputs["summary"])
}

func TestDispatchWebhookRejectsNon2xx(t *testing.T) {
	caller := &fakeHTTPCaller{status: 502, body: "bad gateway"}
	dispatcher := NewDispatcher(&staticResolver{}, Effectors{HTTP: caller}, slog.Default())

	step := &models.Step{
		ID:     "hook",
		Type:   models.StepTypeWebhook,
		Config: &models.WebhookConfig{URL: "https://example.com/hook"},
	}

	_, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
	require.Error(t, err)
	assert.True(t, IsExecutionFailed(err))
}

func TestDispatchConditionalStep(t *testing.T) {
	dispatcher := NewDispatcher(&staticResolver{}, Effectors{}, slog.Default())

	tests := []struct {
		name       string
		expression string
		expected   string
	}{
		{"true expression", "{{summary}} isNotEmpty", "true"},
		{"false expression", "{{summary}} contains nothing relevant", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := &models.Step{
				ID:     "gate",
				Type:   models.StepTypeConditional,
				Config: &models.ConditionalConfig{Expression: tt.expression},
			}

			outcome, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, outcome.Output)
		})
	}
}

func TestDispatchMissingEffector(t *testing.T) {
	dispatcher := NewDispatcher(&staticResolver{}, Effectors{}, slog.Default())

	step := &models.Step{
		ID:     "mail",
		Type:   models.StepTypeEmail,
		Config: &models.EmailConfig{To: "a@example.com", Subject: "hi", Body: "{{summary}}"},
	}

	_, err := dispatcher.ExecuteStep(context.Background(), slog.Default(), step, dispatcherContext())
	require.Error(t, err)
	assert.True(t, IsExecutionFailed(err))
}
