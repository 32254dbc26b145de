package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/voxflow/voxflow/pkg/models"
)

// intentResult is one branch of an executeWorkflows fan-out.
type intentResult struct {
	Action string
	Output string
	Err    error
}

// executeWorkflows dispatches each accepted intent's target workflow through
// the bound runner. Sequential by default; with parallel set, each branch
// runs against its own context clone and results join in intent order.
func (d *Dispatcher) executeWorkflows(
	ctx context.Context,
	logger *slog.Logger,
	step *models.Step,
	config *models.ExecuteWorkflowsConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	if d.subRunner == nil {
		return nil, NewExecutionError(step, "no workflow runner bound", nil)
	}

	dispatchable := make([]models.ExtractedIntent, 0, len(executionCtx.Intents))

	for _, intent := range executionCtx.Intents {
		if intent.TargetWorkflowID == "" {
			logger.InfoContext(ctx, "Intent has no target workflow, skipping",
				"action", intent.Action)

			continue
		}

		if intent.TargetWorkflowID == models.DoNothingTargetID {
			logger.InfoContext(ctx, "Intent resolved to do-nothing, skipping",
				"action", intent.Action)

			continue
		}

		dispatchable = append(dispatchable, intent)
	}

	if len(dispatchable) == 0 {
		return &StepOutcome{Output: "no workflows dispatched"}, nil
	}

	var results []intentResult

	if config.Parallel {
		results = d.dispatchParallel(ctx, logger, dispatchable, executionCtx)
	} else {
		results = d.dispatchSequential(ctx, logger, config, dispatchable, executionCtx)
	}

	lines := make([]string, 0, len(results))

	for _, result := range results {
		switch {
		case result.Err != nil && IsTriggerNotMatched(result.Err):
			lines = append(lines, result.Action+": trigger not matched")
		case result.Err != nil:
			if config.StopOnError {
				return nil, NewExecutionError(step,
					fmt.Sprintf("dispatched workflow for intent %q failed", result.Action), result.Err)
			}

			logger.ErrorContext(ctx, "Dispatched workflow failed",
				"action", result.Action, "error", result.Err)
			lines = append(lines, result.Action+": failed")
		default:
			lines = append(lines, result.Action+": "+result.Output)
		}
	}

	return &StepOutcome{Output: strings.Join(lines, "\n")}, nil
}

func (d *Dispatcher) dispatchSequential(
	ctx context.Context,
	logger *slog.Logger,
	config *models.ExecuteWorkflowsConfig,
	intents []models.ExtractedIntent,
	executionCtx *models.ExecutionContext,
) []intentResult {
	results := make([]intentResult, 0, len(intents))

	for _, intent := range intents {
		result := d.dispatchOne(ctx, logger, intent, executionCtx.Clone())
		results = append(results, result)

		if result.Err != nil && config.StopOnError && !IsTriggerNotMatched(result.Err) {
			break
		}
	}

	return results
}

func (d *Dispatcher) dispatchParallel(
	ctx context.Context,
	logger *slog.Logger,
	intents []models.ExtractedIntent,
	executionCtx *models.ExecutionContext,
) []intentResult {
	var waitGroup sync.WaitGroup

	results := make([]intentResult, len(intents))

	for i, intent := range intents {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			results[i] = d.dispatchOne(ctx, logger, intent, executionCtx.Clone())
		}()
	}

	waitGroup.Wait()

	return results
}

// dispatchOne runs a single routed workflow against an independent context
// clone. The intent parameter, when present, narrows the clone's transcript
// to the spoken argument.
func (d *Dispatcher) dispatchOne(
	ctx context.Context,
	logger *slog.Logger,
	intent models.ExtractedIntent,
	branchCtx *models.ExecutionContext,
) intentResult {
	if intent.Parameter != "" {
		branchCtx.Transcript = intent.Parameter
	}

	run, err := d.subRunner.RunWorkflow(ctx, logger, intent.TargetWorkflowID, branchCtx)
	if err != nil {
		return intentResult{Action: intent.Action, Err: err}
	}

	return intentResult{Action: intent.Action, Output: run.Output}
}
