package services

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/persistence/file"
)

func newWorkflowService(t *testing.T) *Workflow {
	t.Helper()

	return NewWorkflow(file.NewPersistence(t.TempDir()), validator.New())
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:    "Summarize",
		Enabled: true,
		Steps: []*models.Step{
			{
				ID:        "llm",
				Type:      models.StepTypeLLM,
				Config:    &models.LLMConfig{Prompt: "Summarize {{TRANSCRIPT}}"},
				OutputKey: "summary",
				Enabled:   true,
			},
		},
	}
}

func TestValidate(t *testing.T) {
	service := newWorkflowService(t)

	tests := []struct {
		name        string
		workflow    *models.Workflow
		expectError bool
	}{
		{"valid workflow", validWorkflow(), false},
		{"nil workflow", nil, true},
		{
			name:        "missing name",
			workflow:    &models.Workflow{Steps: validWorkflow().Steps},
			expectError: true,
		},
		{
			name:        "no steps",
			workflow:    &models.Workflow{Name: "Empty"},
			expectError: true,
		},
		{
			name: "step without id",
			workflow: &models.Workflow{
				Name: "Broken",
				Steps: []*models.Step{
					{Type: models.StepTypeLLM, Config: &models.LLMConfig{Prompt: "x"}},
				},
			},
			expectError: true,
		},
		{
			name: "llm step without prompt",
			workflow: &models.Workflow{
				Name: "Broken",
				Steps: []*models.Step{
					{ID: "llm", Type: models.StepTypeLLM, Config: &models.LLMConfig{}},
				},
			},
			expectError: true,
		},
		{
			name: "webhook step without url",
			workflow: &models.Workflow{
				Name: "Broken",
				Steps: []*models.Step{
					{ID: "hook", Type: models.StepTypeWebhook, Config: &models.WebhookConfig{}},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Validate(tt.workflow)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestCreateRejectsInvalidWorkflow(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Create(context.Background(), &models.Workflow{Name: "No steps"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	workflows, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestCreateAndFetch(t *testing.T) {
	service := newWorkflowService(t)

	created, err := service.Create(context.Background(), validWorkflow())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := service.FetchByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summarize", fetched.Name)
}

func TestDeleteMissingWorkflow(t *testing.T) {
	service := newWorkflowService(t)

	err := service.Delete(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}
