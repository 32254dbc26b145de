package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

const dirPerm = 0o755

// WorkflowRepository stores one JSON file per workflow under root/workflows.
type WorkflowRepository struct {
	dir string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{dir: filepath.Join(root, "workflows")}
}

func (wr *WorkflowRepository) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	names, err := fs.Glob(os.DirFS(wr.dir), "*.json")
	if err != nil || len(names) == 0 {
		return []*models.Workflow{}, nil
	}

	workflows := make([]*models.Workflow, 0, len(names))

	for _, name := range names {
		workflow, err := wr.WorkflowByID(ctx, name[:len(name)-len(".json")])
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].Name < workflows[j].Name
	})

	return workflows, nil
}

func (wr *WorkflowRepository) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	data, err := os.ReadFile(wr.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	var workflow models.Workflow

	err = json.Unmarshal(data, &workflow)
	if err != nil {
		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	err := os.MkdirAll(wr.dir, dirPerm)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	err = os.WriteFile(wr.path(workflow.ID), data, 0o644)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	return nil
}

func (wr *WorkflowRepository) DeleteWorkflow(_ context.Context, id string) error {
	err := os.Remove(wr.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persistence.NewStoreError("DeleteWorkflow", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	return nil
}

func (wr *WorkflowRepository) path(id string) string {
	return filepath.Join(wr.dir, id+".json")
}
