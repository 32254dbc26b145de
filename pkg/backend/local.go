package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/workflow"
)

// Local is the in-process synchronous backend wrapping the step executor. It
// declares every step type, no durability and no streaming; parallelism
// exists only at the intent-dispatch fan-out.
type Local struct {
	executor   *workflow.Executor
	dispatcher *workflow.Dispatcher
	logger     *slog.Logger
}

func NewLocal(executor *workflow.Executor, dispatcher *workflow.Dispatcher, logger *slog.Logger) *Local {
	local := &Local{
		executor:   executor,
		dispatcher: dispatcher,
		logger:     logger.With("module", "local_backend"),
	}

	executor.SetCapabilityCheck(local.Capabilities().Supports)

	return local
}

func (l *Local) ID() string {
	return "local"
}

func (l *Local) Capabilities() Capabilities {
	return Capabilities{
		StepTypes: models.StepTypes(),
		Streaming: false,
		Durable:   false,
		Parallel:  true,
		Network:   true,
	}
}

func (l *Local) Execute(ctx context.Context, wf *models.Workflow, executionCtx *models.ExecutionContext) (*models.WorkflowRun, error) {
	return l.executor.Execute(ctx, wf, executionCtx)
}

// ExecuteStep runs one step in isolation, outside any run record. Used by
// the step try-out surface.
func (l *Local) ExecuteStep(ctx context.Context, step *models.Step, executionCtx *models.ExecutionContext) (string, error) {
	if !l.Capabilities().Supports(step.Type) {
		return "", fmt.Errorf("step %s (%s): %w", step.ID, step.Type, workflow.ErrStepUnsupported)
	}

	outcome, err := l.dispatcher.ExecuteStep(ctx, l.logger, step, executionCtx)
	if err != nil {
		return "", err
	}

	return outcome.Output, nil
}

var (
	_ Backend     = (*Local)(nil)
	_ StepBackend = (*Local)(nil)
)
