// Package persistence provides the storage abstraction layer for workflows,
// runs and the transcript spool.
package persistence

import (
	"context"
	"time"

	"github.com/voxflow/voxflow/pkg/models"
)

// WorkflowRepository stores workflow definitions.
type WorkflowRepository interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
}

// RunRepository stores workflow run records. Runs are append-only: SaveRun
// with an existing id fails with ErrRunAlreadyExists and nothing updates or
// deletes a persisted run.
type RunRepository interface {
	Runs(ctx context.Context) ([]*models.WorkflowRun, error)
	RunsByWorkflowID(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error)
	RunByID(ctx context.Context, id string) (*models.WorkflowRun, error)
	SaveRun(ctx context.Context, run *models.WorkflowRun) error
}

// TranscriptSpool stores captured transcripts until they are processed.
type TranscriptSpool interface {
	Transcripts(ctx context.Context) ([]*models.Transcript, error)
	TranscriptByID(ctx context.Context, id string) (*models.Transcript, error)
	SaveTranscript(ctx context.Context, transcript *models.Transcript) error
	DeleteTranscript(ctx context.Context, id string) error
}

// ProcessedStore tracks the per-transcript processed flag and serializes
// concurrent scheduler invocations on the same transcript.
type ProcessedStore interface {
	// AcquireProcessing takes the per-transcript processing lock. A false
	// return means another invocation holds it; the caller must not run.
	AcquireProcessing(ctx context.Context, transcriptID string, ttl time.Duration) (bool, error)
	ReleaseProcessing(ctx context.Context, transcriptID string) error

	IsProcessed(ctx context.Context, transcriptID string) (bool, error)
	MarkProcessed(ctx context.Context, transcriptID string) error
	ClearProcessed(ctx context.Context, transcriptID string) error
}

// Persistence bundles the stores one backing implementation provides.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	RunRepository() RunRepository
	TranscriptSpool() TranscriptSpool

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
