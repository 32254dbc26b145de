package services

import (
	"context"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// Run exposes the append-only run history.
type Run struct {
	runs persistence.RunRepository
}

func NewRun(runs persistence.RunRepository) *Run {
	return &Run{runs: runs}
}

func (r *Run) List(ctx context.Context) ([]*models.WorkflowRun, error) {
	return r.runs.Runs(ctx)
}

func (r *Run) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	return r.runs.RunsByWorkflowID(ctx, workflowID)
}

func (r *Run) FetchByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	return r.runs.RunByID(ctx, id)
}
