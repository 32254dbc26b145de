// Package workflow implements the step-execution engine: the dispatcher,
// the sequential executor, the trigger/intent voice-command pipeline and the
// workflow repository.
package workflow

import (
	"errors"
	"fmt"

	"github.com/voxflow/voxflow/pkg/models"
)

var (
	// ErrNoInput indicates the required source transcript is missing or
	// empty. Fatal before any step runs.
	ErrNoInput = errors.New("no input transcript")

	// ErrTriggerNotMatched is the distinguished non-error outcome of a
	// trigger step with stop_if_no_match set. It aborts only the current
	// workflow, is never logged as a failure, and never blocks sibling
	// workflows in an auto-run batch.
	ErrTriggerNotMatched = errors.New("trigger not matched")

	// ErrStepUnsupported indicates the selected backend declares no
	// capability for a step type. Distinct from a functional failure.
	ErrStepUnsupported = errors.New("step type not supported by backend")
)

// ExecutionError is a functional failure from an effector or step. It aborts
// the remaining steps of the current workflow; no partial run is persisted.
type ExecutionError struct {
	StepID   string
	StepType models.StepType
	Reason   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s (%s) failed: %s: %v", e.StepID, e.StepType, e.Reason, e.Err)
	}

	return fmt.Sprintf("step %s (%s) failed: %s", e.StepID, e.StepType, e.Reason)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewExecutionError(step *models.Step, reason string, err error) *ExecutionError {
	return &ExecutionError{
		StepID:   step.ID,
		StepType: step.Type,
		Reason:   reason,
		Err:      err,
	}
}

// ConfigurationError marks an invalid step configuration. These are meant to
// be rejected at validation/edit time and should never surface mid-run.
type ConfigurationError struct {
	StepID string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.StepID == "" {
		return "invalid configuration: " + e.Reason
	}

	return fmt.Sprintf("invalid configuration for step %s: %s", e.StepID, e.Reason)
}

// IsTriggerNotMatched reports whether err is the distinguished
// trigger-not-matched signal.
func IsTriggerNotMatched(err error) bool {
	return errors.Is(err, ErrTriggerNotMatched)
}

// IsExecutionFailed reports whether err is a functional step failure.
func IsExecutionFailed(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// IsConfigurationError reports whether err is an edit-time configuration
// rejection.
func IsConfigurationError(err error) bool {
	var confErr *ConfigurationError

	return errors.As(err, &confErr)
}
