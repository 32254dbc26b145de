package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrRunNotFound indicates a run record was not found by the given identifier.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunAlreadyExists indicates an attempt to overwrite an append-only run record.
	ErrRunAlreadyExists = errors.New("run already exists")

	// ErrTranscriptNotFound indicates a spooled transcript was not found.
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// StoreError wraps a persistence failure with the operation and entity it hit.
type StoreError struct {
	Op     string // Operation being performed (e.g. "SaveWorkflow", "RunByID")
	Entity string // Entity kind ("workflow", "run", "transcript")
	ID     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed for %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewStoreError(op, entity, id string, err error) *StoreError {
	return &StoreError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsRunNotFound checks if an error indicates a run was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}

// IsTranscriptNotFound checks if an error indicates a transcript was not found.
func IsTranscriptNotFound(err error) bool {
	return errors.Is(err, ErrTranscriptNotFound)
}
