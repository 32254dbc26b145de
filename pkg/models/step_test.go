package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expectError bool
		check       func(t *testing.T, step *Step)
	}{
		{
			name: "llm step",
			data: `{"id":"s1","type":"llm","config":{"prompt":"Summarize {{TRANSCRIPT}}","model":"gpt-4o-mini"},"output_key":"summary"}`,
			check: func(t *testing.T, step *Step) {
				config, ok := step.Config.(*LLMConfig)
				require.True(t, ok)
				assert.Equal(t, "Summarize {{TRANSCRIPT}}", config.Prompt)
				assert.Equal(t, "gpt-4o-mini", config.Model)
				assert.Equal(t, "summary", step.OutputKey)
			},
		},
		{
			name: "missing enabled defaults to true",
			data: `{"id":"s2","type":"clipboard","config":{}}`,
			check: func(t *testing.T, step *Step) {
				assert.True(t, step.Enabled)
			},
		},
		{
			name: "explicit enabled false survives",
			data: `{"id":"s3","type":"clipboard","config":{},"enabled":false}`,
			check: func(t *testing.T, step *Step) {
				assert.False(t, step.Enabled)
			},
		},
		{
			name: "shell timeout defaulted",
			data: `{"id":"s4","type":"shell","config":{"command":"ls"}}`,
			check: func(t *testing.T, step *Step) {
				config, ok := step.Config.(*ShellConfig)
				require.True(t, ok)
				assert.Equal(t, DefaultShellTimeoutSeconds, config.TimeoutSeconds)
			},
		},
		{
			name: "trigger location and window defaulted",
			data: `{"id":"s5","type":"trigger","config":{"phrases":["note to self"]}}`,
			check: func(t *testing.T, step *Step) {
				config, ok := step.Config.(*TriggerConfig)
				require.True(t, ok)
				assert.Equal(t, TriggerLocationAnywhere, config.Location)
				assert.Equal(t, DefaultTriggerContextWindow, config.ContextWindow)
			},
		},
		{
			name: "intent extract strategy and threshold defaulted",
			data: `{"id":"s6","type":"intentExtract","config":{}}`,
			check: func(t *testing.T, step *Step) {
				config, ok := step.Config.(*IntentExtractConfig)
				require.True(t, ok)
				assert.Equal(t, IntentStrategyKeywords, config.Strategy)
				assert.InDelta(t, DefaultConfidenceThreshold, config.ConfidenceThreshold, 1e-9)
				assert.NotEmpty(t, config.Prompt)
			},
		},
		{
			name: "missing config treated as empty object",
			data: `{"id":"s7","type":"transform"}`,
			check: func(t *testing.T, step *Step) {
				config, ok := step.Config.(*TransformConfig)
				require.True(t, ok)
				assert.Equal(t, DefaultSummarizeLength, config.MaxLength)
			},
		},
		{
			name:        "unknown step type rejected",
			data:        `{"id":"s8","type":"teleport","config":{}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var step Step

			err := json.Unmarshal([]byte(tt.data), &step)
			if tt.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, &step)
		})
	}
}

func TestStepMarshalRoundTrip(t *testing.T) {
	step := &Step{
		ID:   "announce",
		Type: StepTypeWebhook,
		Config: &WebhookConfig{
			URL:               "https://example.com/hook",
			IncludeTranscript: true,
		},
		OutputKey: "hook",
		Enabled:   false,
		Condition: &Condition{Expression: "{{summary}} isNotEmpty", SkipOnFail: true},
	}

	data, err := json.Marshal(step)
	require.NoError(t, err)

	var decoded Step

	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, step.ID, decoded.ID)
	assert.Equal(t, step.Type, decoded.Type)
	assert.False(t, decoded.Enabled)
	require.NotNil(t, decoded.Condition)
	assert.True(t, decoded.Condition.SkipOnFail)

	config, ok := decoded.Config.(*WebhookConfig)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/hook", config.URL)
	assert.True(t, config.IncludeTranscript)
}

func TestWorkflowUnmarshalDefaultsEnabled(t *testing.T) {
	var wf Workflow

	require.NoError(t, json.Unmarshal([]byte(`{"id":"w1","name":"Old Definition","steps":[]}`), &wf))
	assert.True(t, wf.Enabled)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"w2","name":"Disabled","enabled":false,"steps":[]}`), &wf))
	assert.False(t, wf.Enabled)
}
