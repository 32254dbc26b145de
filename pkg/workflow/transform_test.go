package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/models"
)

func transformContext(lastOutput string) *models.ExecutionContext {
	ctx := models.NewExecutionContext("fallback transcript", "", time.Now().UTC())
	if lastOutput != "" {
		ctx.AppendOutput("prev", lastOutput)
	}

	return ctx
}

func TestApplyTransform(t *testing.T) {
	tests := []struct {
		name     string
		config   *models.TransformConfig
		input    string
		expected string
	}{
		{
			name:     "extractJSON finds embedded object",
			config:   &models.TransformConfig{Operation: models.TransformExtractJSON},
			input:    `The model said {"items": [1, 2]} and then stopped.`,
			expected: `{"items": [1, 2]}`,
		},
		{
			name:     "extractJSON skips invalid fragment before a valid one",
			config:   &models.TransformConfig{Operation: models.TransformExtractJSON},
			input:    `{not json} but later {"x": 1} appears`,
			expected: `{"x": 1}`,
		},
		{
			name:     "extractJSON passes through when nothing parses",
			config:   &models.TransformConfig{Operation: models.TransformExtractJSON},
			input:    "no json here { broken",
			expected: "no json here { broken",
		},
		{
			name:     "extractList bullets non-empty lines",
			config:   &models.TransformConfig{Operation: models.TransformExtractList},
			input:    "first\n\n* second\n  - third  ",
			expected: "- first\n- second\n- third",
		},
		{
			name:     "formatMarkdown passes through",
			config:   &models.TransformConfig{Operation: models.TransformFormatMarkdown},
			input:    "# already markdown",
			expected: "# already markdown",
		},
		{
			name:     "summarize truncates with ellipsis",
			config:   &models.TransformConfig{Operation: models.TransformSummarize, MaxLength: 10},
			input:    "0123456789abcdef",
			expected: "0123456789...",
		},
		{
			name:     "summarize leaves short input alone",
			config:   &models.TransformConfig{Operation: models.TransformSummarize, MaxLength: 100},
			input:    "short",
			expected: "short",
		},
		{
			name:     "regex returns first match",
			config:   &models.TransformConfig{Operation: models.TransformRegex, Pattern: `\d{4}-\d{2}-\d{2}`},
			input:    "meet on 2025-03-14 at noon",
			expected: "2025-03-14",
		},
		{
			name:     "regex passes through on no match",
			config:   &models.TransformConfig{Operation: models.TransformRegex, Pattern: `\d{10}`},
			input:    "no long numbers",
			expected: "no long numbers",
		},
		{
			name:     "empty regex pattern passes through",
			config:   &models.TransformConfig{Operation: models.TransformRegex},
			input:    "untouched",
			expected: "untouched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := applyTransform(tt.config, transformContext(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}

func TestApplyTransformTemplate(t *testing.T) {
	ctx := transformContext("the summary")

	output, err := applyTransform(&models.TransformConfig{
		Operation: models.TransformTemplate,
		Template:  "Result: {{PREVIOUS_OUTPUT}}",
	}, ctx)

	require.NoError(t, err)
	assert.Equal(t, "Result: the summary", output)
}

func TestApplyTransformFallsBackToTranscript(t *testing.T) {
	ctx := transformContext("")

	output, err := applyTransform(&models.TransformConfig{Operation: models.TransformFormatMarkdown}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "fallback transcript", output)
}

func TestApplyTransformRejectsUnknownOperation(t *testing.T) {
	_, err := applyTransform(&models.TransformConfig{Operation: "rot13"}, transformContext("x"))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestApplyTransformRejectsInvalidPattern(t *testing.T) {
	_, err := applyTransform(&models.TransformConfig{
		Operation: models.TransformRegex,
		Pattern:   "[unclosed",
	}, transformContext("x"))

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
