package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// Repository is the executor-facing view over workflow storage.
type Repository struct {
	store persistence.WorkflowRepository
}

func NewRepository(store persistence.WorkflowRepository) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Fetch(ctx context.Context) ([]*models.Workflow, error) {
	return r.store.Workflows(ctx)
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return r.store.WorkflowByID(ctx, id)
}

// FetchAutoRun returns the enabled auto-run workflows ordered by their
// auto-run order, ties broken by name for a stable batch order. When no
// workflow qualifies and the built-in id is absent from the set entirely,
// the synthesized default workflow is returned instead; a set that contains
// the id (even disabled) is respected as-is.
func (r *Repository) FetchAutoRun(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.store.Workflows(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*models.Workflow, 0, len(workflows))
	defaultPresent := false

	for _, workflow := range workflows {
		if workflow.ID == models.DefaultWorkflowID {
			defaultPresent = true
		}

		if workflow.Enabled && workflow.AutoRun {
			eligible = append(eligible, workflow)
		}
	}

	if len(eligible) == 0 && !defaultPresent {
		return []*models.Workflow{models.DefaultWorkflow()}, nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].AutoRunOrder != eligible[j].AutoRunOrder {
			return eligible[i].AutoRunOrder < eligible[j].AutoRunOrder
		}

		return eligible[i].Name < eligible[j].Name
	})

	return eligible, nil
}

func (r *Repository) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err := r.store.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

func (r *Repository) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := r.store.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = id
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	err = r.store.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.store.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	return r.store.DeleteWorkflow(ctx, id)
}
