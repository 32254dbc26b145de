//go:build integration
// +build integration

package postgresql

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/voxflow/voxflow/pkg/models"
	persistencepkg "github.com/voxflow/voxflow/pkg/persistence"
)

var postgresContainer *postgres.PostgresContainer

func TestMain(m *testing.M) {
	code := m.Run()

	if postgresContainer != nil {
		_ = testcontainers.TerminateContainer(postgresContainer)
	}

	os.Exit(code)
}

func setupTestDB(t *testing.T) (*Persistence, context.Context) {
	ctx := context.Background()

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error
		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("voxflow_test"),
			postgres.WithUsername("voxflow"),
			postgres.WithPassword("voxflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		for _, table := range []string{"runs", "transcripts", "workflows"} {
			_, _ = p.db.ExecContext(ctx, "DELETE FROM "+table)
		}

		_ = p.Close(ctx)
	})

	return p, ctx
}

func TestPostgresWorkflowRoundTrip(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.WorkflowRepository()

	wf := &models.Workflow{
		ID:      "wf-pg-1",
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
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, repo.SaveWorkflow(ctx, wf))

	loaded, err := repo.WorkflowByID(ctx, "wf-pg-1")
	require.NoError(t, err)
	assert.Equal(t, "Summarize", loaded.Name)
	require.Len(t, loaded.Steps, 1)

	config, ok := loaded.Steps[0].Config.(*models.LLMConfig)
	require.True(t, ok)
	assert.Equal(t, "Summarize {{TRANSCRIPT}}", config.Prompt)

	all, err := repo.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteWorkflow(ctx, "wf-pg-1"))

	_, err = repo.WorkflowByID(ctx, "wf-pg-1")
	assert.True(t, persistencepkg.IsWorkflowNotFound(err))
}

func TestPostgresRunsAreAppendOnly(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.RunRepository()

	run := &models.WorkflowRun{
		ID:         "run-pg-1",
		WorkflowID: "wf-pg-1",
		Output:     "done",
		Status:     models.RunStatusCompleted,
		CreatedAt:  time.Now().UTC(),
		Steps: []models.StepTrace{
			{StepNumber: 1, StepType: models.StepTypeLLM, Output: "done", OutputKey: "summary"},
		},
	}

	require.NoError(t, repo.SaveRun(ctx, run))

	err := repo.SaveRun(ctx, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistencepkg.ErrRunAlreadyExists)

	loaded, err := repo.RunByID(ctx, "run-pg-1")
	require.NoError(t, err)
	assert.Equal(t, "done", loaded.Output)
	require.Len(t, loaded.Steps, 1)

	byWorkflow, err := repo.RunsByWorkflowID(ctx, "wf-pg-1")
	require.NoError(t, err)
	assert.Len(t, byWorkflow, 1)
}

func TestPostgresTranscriptSpool(t *testing.T) {
	p, ctx := setupTestDB(t)
	spool := p.TranscriptSpool()

	transcript := &models.Transcript{
		ID:        "t-pg-1",
		Title:     "Standup",
		Text:      "note to self follow up",
		Source:    "api",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, spool.SaveTranscript(ctx, transcript))

	loaded, err := spool.TranscriptByID(ctx, "t-pg-1")
	require.NoError(t, err)
	assert.Equal(t, "note to self follow up", loaded.Text)

	require.NoError(t, spool.DeleteTranscript(ctx, "t-pg-1"))

	_, err = spool.TranscriptByID(ctx, "t-pg-1")
	assert.True(t, persistencepkg.IsTranscriptNotFound(err))
}

func TestPostgresHealthCheck(t *testing.T) {
	p, ctx := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}
