// Package backend defines the execution-strategy seam: a backend declares
// its capabilities up front and runs workflows (and optionally single steps)
// under them.
package backend

import (
	"context"

	"github.com/voxflow/voxflow/pkg/models"
)

// Capabilities describes what an execution backend can do. The scheduler and
// services check it before dispatching; an unsupported step type is a
// distinct condition from a step failure.
type Capabilities struct {
	StepTypes []models.StepType

	Streaming bool
	Durable   bool
	Parallel  bool
	Network   bool
}

// Supports reports whether the backend declared the step type.
func (c Capabilities) Supports(stepType models.StepType) bool {
	for _, t := range c.StepTypes {
		if t == stepType {
			return true
		}
	}

	return false
}

// Backend executes whole workflows under a declared capability set.
type Backend interface {
	ID() string
	Capabilities() Capabilities
	Execute(ctx context.Context, workflow *models.Workflow, executionCtx *models.ExecutionContext) (*models.WorkflowRun, error)
}

// StepBackend is the optional single-step surface. A backend that does not
// implement it simply cannot run isolated steps; callers treat the missing
// interface as unsupported, not as a failure.
type StepBackend interface {
	Backend
	ExecuteStep(ctx context.Context, step *models.Step, executionCtx *models.ExecutionContext) (string, error)
}
