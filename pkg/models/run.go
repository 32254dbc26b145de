package models

import "time"

// RunStatus is the terminal state of a workflow execution.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// RunOutputSeparator joins the accumulated outputs into the run's final
// output text.
const RunOutputSeparator = "\n\n---\n\n"

// StepTrace is one entry of the per-step execution trace.
type StepTrace struct {
	StepNumber int      `json:"step_number"`
	StepType   StepType `json:"step_type"`
	Input      string   `json:"input,omitempty"`
	Output     string   `json:"output,omitempty"`
	OutputKey  string   `json:"output_key,omitempty"`
}

// WorkflowRun is the append-only record of one completed top-level workflow
// execution. It is handed to the run store on completion and never mutated
// afterwards.
type WorkflowRun struct {
	ID           string      `json:"id"`
	WorkflowID   string      `json:"workflow_id"`
	WorkflowName string      `json:"workflow_name"`
	WorkflowIcon string      `json:"workflow_icon,omitempty"`
	Output       string      `json:"output"`
	Provider     string      `json:"provider,omitempty"`
	Model        string      `json:"model,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Status       RunStatus   `json:"status"`
	Steps        []StepTrace `json:"steps"`
}
