package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/otelhelper"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/template"
)

const tracerName = "voxflow.workflow"

// Executor runs workflows step by step: enablement and condition gating,
// dispatch, output accumulation and run persistence. It exclusively owns the
// ExecutionContext for the duration of one run.
type Executor struct {
	workflows  *Repository
	runs       persistence.RunRepository
	dispatcher *Dispatcher
	conditions models.ConditionEvaluator
	logger     *slog.Logger
	tracer     trace.Tracer

	// supports, when set by the backend, gates dispatch per step type.
	supports func(models.StepType) bool
}

func NewExecutor(workflows *Repository, runs persistence.RunRepository, dispatcher *Dispatcher, logger *slog.Logger) *Executor {
	executor := &Executor{
		workflows:  workflows,
		runs:       runs,
		dispatcher: dispatcher,
		logger:     logger.With("module", "workflow_executor"),
		tracer:     otel.Tracer(tracerName),
	}

	dispatcher.BindRunner(executor)

	return executor
}

// SetCapabilityCheck installs the backend's per-step-type support gate. A nil
// check means every step type dispatches.
func (e *Executor) SetCapabilityCheck(supports func(models.StepType) bool) {
	e.supports = supports
}

// ListWorkflows implements SubWorkflowRunner for intent target resolution.
func (e *Executor) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return e.workflows.Fetch(ctx)
}

// RunWorkflow implements SubWorkflowRunner: a routed sub-workflow runs
// through the same loop and persists its own run record.
func (e *Executor) RunWorkflow(ctx context.Context, logger *slog.Logger, workflowID string, executionCtx *models.ExecutionContext) (*models.WorkflowRun, error) {
	workflow, err := e.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	return e.Execute(ctx, workflow, executionCtx)
}

// Execute runs every step of the workflow in definition order against the
// context. On completion (or a trigger-stopped abort) it persists one
// WorkflowRun; any other error propagates with no partial run persisted.
func (e *Executor) Execute(ctx context.Context, workflow *models.Workflow, executionCtx *models.ExecutionContext) (*models.WorkflowRun, error) {
	if strings.TrimSpace(executionCtx.Transcript) == "" {
		return nil, ErrNoInput
	}

	// A dispatched sub-workflow inherits the router's context; its run must
	// report only outputs appended from here on.
	outputBase := executionCtx.OutputCount()

	ctx, span := e.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		otelhelper.WorkflowID(workflow.ID),
		otelhelper.WorkflowName(workflow.Name),
		otelhelper.StepCount(len(workflow.Steps)),
	))
	defer span.End()

	logger := e.logger.With("workflow_id", workflow.ID, "workflow_name", workflow.Name)
	logger.InfoContext(ctx, "Starting workflow execution")

	var (
		traces   []models.StepTrace
		provider string
		model    string
	)

	for i, step := range workflow.Steps {
		stepLogger := logger.With("step_id", step.ID, "step_type", step.Type, "step_number", i+1)

		if !step.Enabled {
			stepLogger.DebugContext(ctx, "Step is disabled, skipping")

			continue
		}

		if skip := e.shouldSkip(step, executionCtx, stepLogger); skip {
			continue
		}

		if e.supports != nil && !e.supports(step.Type) {
			return nil, fmt.Errorf("step %s (%s): %w", step.ID, step.Type, ErrStepUnsupported)
		}

		outcome, err := e.executeStep(ctx, stepLogger, step, executionCtx)
		if err != nil {
			if IsTriggerNotMatched(err) {
				stepLogger.InfoContext(ctx, "Trigger not matched, stopping workflow")

				run := e.buildRun(workflow, executionCtx, outputBase, traces, provider, model, models.RunStatusAborted)

				saveErr := e.runs.SaveRun(ctx, run)
				if saveErr != nil {
					logger.ErrorContext(ctx, "Failed to persist aborted run", "error", saveErr)
				}

				return run, ErrTriggerNotMatched
			}

			otelhelper.RecordFailure(span, err, otelhelper.StepID(step.ID))
			stepLogger.ErrorContext(ctx, "Step execution failed", "error", err)

			return nil, err
		}

		if provider == "" && outcome.Provider != "" {
			provider = outcome.Provider
			model = outcome.Model
		}

		outputKey := step.OutputKey
		if outputKey == "" {
			outputKey = step.ID
		}

		executionCtx.AppendOutput(outputKey, outcome.Output)

		traces = append(traces, models.StepTrace{
			StepNumber: i + 1,
			StepType:   step.Type,
			Input:      outcome.ResolvedInput,
			Output:     outcome.Output,
			OutputKey:  outputKey,
		})

		stepLogger.InfoContext(ctx, "Step executed", "output_key", outputKey)
	}

	run := e.buildRun(workflow, executionCtx, outputBase, traces, provider, model, models.RunStatusCompleted)

	err := e.runs.SaveRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("failed to persist run for workflow %s: %w", workflow.ID, err)
	}

	logger.InfoContext(ctx, "Workflow execution completed", "run_id", run.ID, "steps_executed", len(traces))

	return run, nil
}

// shouldSkip applies the condition gate. A false expression skips the step
// only when skip_on_fail is set; false without it still executes.
func (e *Executor) shouldSkip(step *models.Step, executionCtx *models.ExecutionContext, logger *slog.Logger) bool {
	if step.Condition == nil || !step.Condition.SkipOnFail {
		return false
	}

	resolved := template.Resolve(step.Condition.Expression, executionCtx)
	if e.conditions.Evaluate(resolved) {
		return false
	}

	logger.Debug("Condition evaluated to false, skipping step", "expression", step.Condition.Expression)

	return true
}

func (e *Executor) executeStep(ctx context.Context, logger *slog.Logger, step *models.Step, executionCtx *models.ExecutionContext) (*StepOutcome, error) {
	ctx, span := e.tracer.Start(ctx, "workflow.step", trace.WithAttributes(
		otelhelper.StepID(step.ID),
		otelhelper.StepType(string(step.Type)),
	))
	defer span.End()

	return e.dispatcher.ExecuteStep(ctx, logger, step, executionCtx)
}

func (e *Executor) buildRun(
	workflow *models.Workflow,
	executionCtx *models.ExecutionContext,
	outputBase int,
	traces []models.StepTrace,
	provider, model string,
	status models.RunStatus,
) *models.WorkflowRun {
	return &models.WorkflowRun{
		ID:           uuid.New().String(),
		WorkflowID:   workflow.ID,
		WorkflowName: workflow.Name,
		WorkflowIcon: workflow.Icon,
		Output:       strings.Join(executionCtx.OutputValuesFrom(outputBase), models.RunOutputSeparator),
		Provider:     provider,
		Model:        model,
		CreatedAt:    time.Now().UTC(),
		Status:       status,
		Steps:        traces,
	}
}
