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

// RunRepository stores one JSON file per run under root/runs. Runs are
// append-only: an existing file is never rewritten.
type RunRepository struct {
	dir string
}

func NewRunRepository(root string) *RunRepository {
	return &RunRepository{dir: filepath.Join(root, "runs")}
}

func (rr *RunRepository) Runs(ctx context.Context) ([]*models.WorkflowRun, error) {
	names, err := fs.Glob(os.DirFS(rr.dir), "*.json")
	if err != nil || len(names) == 0 {
		return []*models.WorkflowRun{}, nil
	}

	runs := make([]*models.WorkflowRun, 0, len(names))

	for _, name := range names {
		run, err := rr.RunByID(ctx, name[:len(name)-len(".json")])
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	return runs, nil
}

func (rr *RunRepository) RunsByWorkflowID(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	all, err := rr.Runs(ctx)
	if err != nil {
		return nil, err
	}

	runs := make([]*models.WorkflowRun, 0, len(all))

	for _, run := range all {
		if run.WorkflowID == workflowID {
			runs = append(runs, run)
		}
	}

	return runs, nil
}

func (rr *RunRepository) RunByID(_ context.Context, id string) (*models.WorkflowRun, error) {
	data, err := os.ReadFile(rr.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewStoreError("RunByID", "run", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	var run models.WorkflowRun

	err = json.Unmarshal(data, &run)
	if err != nil {
		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	return &run, nil
}

func (rr *RunRepository) SaveRun(_ context.Context, run *models.WorkflowRun) error {
	err := os.MkdirAll(rr.dir, dirPerm)
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	_, err = os.Stat(rr.path(run.ID))
	if err == nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, persistence.ErrRunAlreadyExists)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	err = os.WriteFile(rr.path(run.ID), data, 0o644)
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	return nil
}

func (rr *RunRepository) path(id string) string {
	return filepath.Join(rr.dir, id+".json")
}
