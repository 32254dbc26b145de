package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

func TestWorkflowRoundTrip(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	wf := &models.Workflow{
		ID:      "wf-1",
		Name:    "Summarize",
		Enabled: true,
		AutoRun: true,
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

	require.NoError(t, repo.SaveWorkflow(ctx, wf))

	loaded, err := repo.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Summarize", loaded.Name)
	require.Len(t, loaded.Steps, 1)

	config, ok := loaded.Steps[0].Config.(*models.LLMConfig)
	require.True(t, ok)
	assert.Equal(t, "Summarize {{TRANSCRIPT}}", config.Prompt)

	all, err := repo.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteWorkflow(ctx, "wf-1"))

	_, err = repo.WorkflowByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowNotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().WorkflowByID(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = p.WorkflowRepository().DeleteWorkflow(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRunsAreAppendOnly(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RunRepository()

	run := &models.WorkflowRun{
		ID:         "run-1",
		WorkflowID: "wf-1",
		Output:     "done",
		Status:     models.RunStatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	require.NoError(t, repo.SaveRun(ctx, run))

	err := repo.SaveRun(ctx, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrRunAlreadyExists)

	loaded, err := repo.RunByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "done", loaded.Output)
}

func TestRunsByWorkflowID(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RunRepository()

	now := time.Now().UTC()

	require.NoError(t, repo.SaveRun(ctx, &models.WorkflowRun{ID: "r1", WorkflowID: "wf-a", CreatedAt: now}))
	require.NoError(t, repo.SaveRun(ctx, &models.WorkflowRun{ID: "r2", WorkflowID: "wf-b", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, repo.SaveRun(ctx, &models.WorkflowRun{ID: "r3", WorkflowID: "wf-a", CreatedAt: now.Add(2 * time.Second)}))

	runs, err := repo.RunsByWorkflowID(ctx, "wf-a")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, "r1", runs[1].ID)
}

func TestTranscriptSpoolRoundTrip(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	spool := p.TranscriptSpool()

	transcript := &models.Transcript{
		ID:        "t-1",
		Title:     "Standup",
		Text:      "note to self follow up",
		Source:    "api",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, spool.SaveTranscript(ctx, transcript))

	loaded, err := spool.TranscriptByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "note to self follow up", loaded.Text)

	all, err := spool.Transcripts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, spool.DeleteTranscript(ctx, "t-1"))

	_, err = spool.TranscriptByID(ctx, "t-1")
	assert.True(t, persistence.IsTranscriptNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	root := t.TempDir()

	assert.NoError(t, NewPersistence(root).HealthCheck(context.Background()))
	assert.Error(t, NewPersistence(root+"/nope").HealthCheck(context.Background()))
}

func TestFileURLPrefixStripped(t *testing.T) {
	root := t.TempDir()
	p := NewPersistence("file://" + root)

	assert.NoError(t, p.HealthCheck(context.Background()))
}
