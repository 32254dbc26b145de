// Package scheduler selects, orders and idempotently runs auto-run
// workflows against newly captured transcripts.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/voxflow/voxflow/pkg/backend"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/workflow"
)

// processingLockTTL bounds how long a crashed invocation can keep a
// transcript locked.
const processingLockTTL = 10 * time.Minute

// AutoRunScheduler runs the eligible auto-run workflows once per transcript.
// The processed flag is the only cross-run shared state; its read and write
// are serialized per transcript through the store's processing lock.
type AutoRunScheduler struct {
	workflows *workflow.Repository
	backend   backend.Backend
	processed persistence.ProcessedStore
	logger    *slog.Logger

	// Enabled is the global auto-run switch, read at scheduling time.
	Enabled bool
}

func NewAutoRunScheduler(
	workflows *workflow.Repository,
	executionBackend backend.Backend,
	processed persistence.ProcessedStore,
	enabled bool,
	logger *slog.Logger,
) *AutoRunScheduler {
	return &AutoRunScheduler{
		workflows: workflows,
		backend:   executionBackend,
		processed: processed,
		logger:    logger.With("module", "auto_run_scheduler"),
		Enabled:   enabled,
	}
}

// Process runs the auto-run batch for one transcript. The batch is
// best-effort: a trigger that does not match is not a failure, and any other
// workflow failure is logged and isolated so siblings still run. The
// processed flag is set exactly once after the batch, regardless of
// per-workflow outcome, even for an empty workflow set.
func (s *AutoRunScheduler) Process(ctx context.Context, transcript *models.Transcript) error {
	logger := s.logger.With("transcript_id", transcript.ID)

	if !s.Enabled {
		logger.DebugContext(ctx, "Auto-run is disabled, skipping")

		return nil
	}

	acquired, err := s.processed.AcquireProcessing(ctx, transcript.ID, processingLockTTL)
	if err != nil {
		return err
	}

	if !acquired {
		logger.InfoContext(ctx, "Transcript is being processed by another invocation, skipping")

		return nil
	}

	defer func() {
		releaseErr := s.processed.ReleaseProcessing(ctx, transcript.ID)
		if releaseErr != nil {
			logger.ErrorContext(ctx, "Failed to release processing lock", "error", releaseErr)
		}
	}()

	done, err := s.processed.IsProcessed(ctx, transcript.ID)
	if err != nil {
		return err
	}

	if done {
		logger.DebugContext(ctx, "Transcript already processed, skipping")

		return nil
	}

	s.runBatch(ctx, logger, transcript)

	return s.processed.MarkProcessed(ctx, transcript.ID)
}

// Reprocess clears the processed flag and runs the same path again.
func (s *AutoRunScheduler) Reprocess(ctx context.Context, transcript *models.Transcript) error {
	err := s.processed.ClearProcessed(ctx, transcript.ID)
	if err != nil {
		return err
	}

	return s.Process(ctx, transcript)
}

func (s *AutoRunScheduler) runBatch(ctx context.Context, logger *slog.Logger, transcript *models.Transcript) {
	workflows, err := s.workflows.FetchAutoRun(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to select auto-run workflows", "error", err)

		return
	}

	logger.InfoContext(ctx, "Running auto-run batch", "workflows", len(workflows))

	for _, wf := range workflows {
		executionCtx := models.NewExecutionContext(transcript.Text, transcript.Title, transcript.CreatedAt)

		run, err := s.backend.Execute(ctx, wf, executionCtx)

		switch {
		case workflow.IsTriggerNotMatched(err):
			logger.InfoContext(ctx, "Workflow trigger not matched",
				"workflow_id", wf.ID, "workflow_name", wf.Name)
		case err != nil:
			logger.ErrorContext(ctx, "Workflow failed",
				"workflow_id", wf.ID, "workflow_name", wf.Name, "error", err)
		default:
			logger.InfoContext(ctx, "Workflow completed",
				"workflow_id", wf.ID, "workflow_name", wf.Name, "run_id", run.ID)
		}
	}
}
