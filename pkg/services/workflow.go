package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/workflow"
)

// Workflow is the CRUD and validation service over workflow definitions.
// Configuration problems are rejected here, at edit time, so they never
// surface mid-execution.
type Workflow struct {
	persistence persistence.Persistence
	repository  *workflow.Repository
	validator   *validator.Validate
}

func NewWorkflow(p persistence.Persistence, v *validator.Validate) *Workflow {
	return &Workflow{
		persistence: p,
		repository:  workflow.NewRepository(p.WorkflowRepository()),
		validator:   v,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	return w.repository.Fetch(ctx)
}

func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.repository.FetchByID(ctx, id)
}

func (w *Workflow) Create(ctx context.Context, wf *models.Workflow) (*models.Workflow, error) {
	err := w.Validate(wf)
	if err != nil {
		return nil, err
	}

	return w.repository.Create(ctx, wf)
}

func (w *Workflow) Update(ctx context.Context, id string, wf *models.Workflow) (*models.Workflow, error) {
	err := w.Validate(wf)
	if err != nil {
		return nil, err
	}

	return w.repository.Update(ctx, id, wf)
}

func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.repository.Delete(ctx, id)
}

// Validate applies struct validation and per-step config schema validation.
func (w *Workflow) Validate(wf *models.Workflow) error {
	if wf == nil {
		return NewValidationError("Validate", "workflow cannot be nil", ErrWorkflowNil)
	}

	if strings.TrimSpace(wf.Name) == "" {
		return NewValidationError("Validate", "workflow name is required", ErrWorkflowNameRequired)
	}

	if len(wf.Steps) == 0 {
		return NewValidationError("Validate", "workflow must have at least one step", ErrStepsRequired)
	}

	err := w.validator.StructPartial(wf, "Name")
	if err != nil {
		return NewValidationError("Validate", err.Error(), ErrInvalidRequest)
	}

	for _, step := range wf.Steps {
		err = w.validateStep(step)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Workflow) validateStep(step *models.Step) error {
	err := w.validator.Struct(step)
	if err != nil {
		return NewValidationError("Validate",
			fmt.Sprintf("step %s: %v", step.ID, err), ErrInvalidRequest)
	}

	schema, ok := models.StepConfigSchema(step.Type)
	if !ok {
		return NewValidationError("Validate",
			fmt.Sprintf("step %s: unknown step type %q", step.ID, step.Type), ErrInvalidRequest)
	}

	raw, err := json.Marshal(step.Config)
	if err != nil {
		return NewValidationError("Validate",
			fmt.Sprintf("step %s: %v", step.ID, err), ErrInvalidRequest)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return NewValidationError("Validate",
			fmt.Sprintf("step %s: %v", step.ID, err), ErrInvalidRequest)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return NewValidationError("Validate",
			fmt.Sprintf("step %s config: %s", step.ID, strings.Join(details, "; ")), ErrInvalidRequest)
	}

	return nil
}
