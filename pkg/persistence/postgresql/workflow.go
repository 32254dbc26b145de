package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// WorkflowRepository stores the full workflow definition as JSONB, with the
// scheduling columns denormalized for querying.
type WorkflowRepository struct {
	db *sql.DB
}

func (wr *WorkflowRepository) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	rows, err := wr.db.QueryContext(ctx, "SELECT definition FROM workflows ORDER BY name")
	if err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}
	defer rows.Close()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		var definition []byte

		err = rows.Scan(&definition)
		if err != nil {
			return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
		}

		var workflow models.Workflow

		err = json.Unmarshal(definition, &workflow)
		if err != nil {
			return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
		}

		workflows = append(workflows, &workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}

	return workflows, nil
}

func (wr *WorkflowRepository) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	var definition []byte

	err := wr.db.QueryRowContext(ctx, "SELECT definition FROM workflows WHERE id = $1", id).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	var workflow models.Workflow

	err = json.Unmarshal(definition, &workflow)
	if err != nil {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	definition, err := json.Marshal(workflow)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	_, err = wr.db.ExecContext(ctx, `
		INSERT INTO workflows (id, definition, name, enabled, auto_run, auto_run_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			definition = EXCLUDED.definition,
			name = EXCLUDED.name,
			enabled = EXCLUDED.enabled,
			auto_run = EXCLUDED.auto_run,
			auto_run_order = EXCLUDED.auto_run_order,
			updated_at = EXCLUDED.updated_at
	`, workflow.ID, definition, workflow.Name, workflow.Enabled,
		workflow.AutoRun, workflow.AutoRunOrder, workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	return nil
}

func (wr *WorkflowRepository) DeleteWorkflow(ctx context.Context, id string) error {
	result, err := wr.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	if affected == 0 {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}
