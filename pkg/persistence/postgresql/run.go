package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

const uniqueViolation = "23505"

// RunRepository stores run records as JSONB. The primary key enforces the
// append-only contract at the database level.
type RunRepository struct {
	db *sql.DB
}

func (rr *RunRepository) Runs(ctx context.Context) ([]*models.WorkflowRun, error) {
	return rr.query(ctx, "SELECT record FROM workflow_runs ORDER BY created_at DESC")
}

func (rr *RunRepository) RunsByWorkflowID(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	return rr.query(ctx,
		"SELECT record FROM workflow_runs WHERE workflow_id = $1 ORDER BY created_at DESC", workflowID)
}

func (rr *RunRepository) RunByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	var record []byte

	err := rr.db.QueryRowContext(ctx, "SELECT record FROM workflow_runs WHERE id = $1", id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("RunByID", "run", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	var run models.WorkflowRun

	err = json.Unmarshal(record, &run)
	if err != nil {
		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	return &run, nil
}

func (rr *RunRepository) SaveRun(ctx context.Context, run *models.WorkflowRun) error {
	record, err := json.Marshal(run)
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	_, err = rr.db.ExecContext(ctx, `
		INSERT INTO workflow_runs (id, workflow_id, record, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.WorkflowID, record, run.Status, run.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return persistence.NewStoreError("SaveRun", "run", run.ID, persistence.ErrRunAlreadyExists)
		}

		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	return nil
}

func (rr *RunRepository) query(ctx context.Context, statement string, args ...any) ([]*models.WorkflowRun, error) {
	rows, err := rr.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, persistence.NewStoreError("Runs", "run", "", err)
	}
	defer rows.Close()

	runs := make([]*models.WorkflowRun, 0)

	for rows.Next() {
		var record []byte

		err = rows.Scan(&record)
		if err != nil {
			return nil, persistence.NewStoreError("Runs", "run", "", err)
		}

		var run models.WorkflowRun

		err = json.Unmarshal(record, &run)
		if err != nil {
			return nil, persistence.NewStoreError("Runs", "run", "", err)
		}

		runs = append(runs, &run)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStoreError("Runs", "run", "", err)
	}

	return runs, nil
}
