package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxflow/voxflow/pkg/models"
)

func testContext() *models.ExecutionContext {
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	return models.NewExecutionContext("hello world", "Morning notes", ts)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		setup    func(ctx *models.ExecutionContext)
		expected string
	}{
		{
			name:     "empty template",
			template: "",
			expected: "",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			expected: "plain text",
		},
		{
			name:     "transcript placeholder",
			template: "Summarize: {{TRANSCRIPT}}",
			expected: "Summarize: hello world",
		},
		{
			name:     "title and date placeholders",
			template: "{{TITLE}} at {{DATE}}",
			expected: "Morning notes at 2025-03-14T09:30:00Z",
		},
		{
			name:     "output key placeholder",
			template: "result: {{summary}}",
			setup: func(ctx *models.ExecutionContext) {
				ctx.AppendOutput("summary", "the gist")
			},
			expected: "result: the gist",
		},
		{
			name:     "previous output alias resolves to last appended",
			template: "{{PREVIOUS_OUTPUT}}",
			setup: func(ctx *models.ExecutionContext) {
				ctx.AppendOutput("first", "one")
				ctx.AppendOutput("second", "two")
			},
			expected: "two",
		},
		{
			name:     "output alias matches previous output alias",
			template: "{{OUTPUT}}|{{PREVIOUS_OUTPUT}}",
			setup: func(ctx *models.ExecutionContext) {
				ctx.AppendOutput("only", "value")
			},
			expected: "value|value",
		},
		{
			name:     "aliases untouched when no output exists",
			template: "{{PREVIOUS_OUTPUT}}",
			expected: "{{PREVIOUS_OUTPUT}}",
		},
		{
			name:     "unknown placeholder left verbatim",
			template: "{{NOT_A_KEY}}",
			expected: "{{NOT_A_KEY}}",
		},
		{
			name:     "shared key resolves to latest write",
			template: "{{notes}}",
			setup: func(ctx *models.ExecutionContext) {
				ctx.AppendOutput("notes", "old")
				ctx.AppendOutput("notes", "new")
			},
			expected: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			if tt.setup != nil {
				tt.setup(ctx)
			}

			assert.Equal(t, tt.expected, Resolve(tt.template, ctx))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	ctx := testContext()
	ctx.AppendOutput("summary", "short version of {{TRANSCRIPT}}")

	template := "{{summary}} / {{OUTPUT}}"

	first := Resolve(template, ctx)
	second := Resolve(template, ctx)

	assert.Equal(t, first, second)
}
