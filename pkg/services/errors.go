// Package services implements the business operations behind the API: workflow
// CRUD with edit-time validation, transcript ingestion and run history.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors that map to client errors (4xx responses).
var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrWorkflowNameRequired  = errors.New("workflow name is required")
	ErrStepsRequired         = errors.New("workflow must have at least one step")
	ErrWorkflowNil           = errors.New("workflow cannot be nil")
	ErrTranscriptTextMissing = errors.New("transcript text is required")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrStepsRequired) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrTranscriptTextMissing)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{Op: op, Message: message, Err: err}
}
