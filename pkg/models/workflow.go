// Package models defines the core domain models for transcript automation workflows.
package models

import (
	"encoding/json"
	"time"
)

// DefaultWorkflowID is the distinguished built-in workflow. The auto-run
// scheduler synthesizes it when no auto-run workflow is configured and this
// id is absent from the workflow set. A user who deleted it explicitly is
// respected: presence of the id, not its content, is what is checked.
const DefaultWorkflowID = "quick-summary"

// Workflow is a user-defined ordered pipeline of typed steps, consumed
// read-only by the executor.
type Workflow struct {
	ID           string    `json:"id"             validate:"required"`
	Name         string    `json:"name"           validate:"required,min=1"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Steps        []*Step   `json:"steps"`
	Enabled      bool      `json:"enabled"`
	IsPinned     bool      `json:"is_pinned"`
	AutoRun      bool      `json:"auto_run"`
	AutoRunOrder int       `json:"auto_run_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// workflowAlias breaks the UnmarshalJSON recursion.
type workflowAlias Workflow

// UnmarshalJSON tolerates definitions written by older versions: fields that
// did not exist yet get their documented defaults (enabled=true,
// is_pinned=false, auto_run=false, auto_run_order=0).
func (w *Workflow) UnmarshalJSON(data []byte) error {
	aux := struct {
		workflowAlias

		Enabled *bool `json:"enabled"`
	}{}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	*w = Workflow(aux.workflowAlias)

	if aux.Enabled == nil {
		w.Enabled = true
	} else {
		w.Enabled = *aux.Enabled
	}

	return nil
}

// DefaultWorkflow returns the synthesized built-in fallback workflow: a
// single LLM step summarizing the transcript.
func DefaultWorkflow() *Workflow {
	return &Workflow{
		ID:      DefaultWorkflowID,
		Name:    "Quick Summary",
		Icon:    "text.quote",
		Enabled: true,
		AutoRun: true,
		Steps: []*Step{
			{
				ID:   "summarize",
				Type: StepTypeLLM,
				Name: "Summarize transcript",
				Config: &LLMConfig{
					Prompt:      "Summarize the following transcript in a few sentences:\n\n{{TRANSCRIPT}}",
					Temperature: 0.3,
					TopP:        1.0,
					MaxTokens:   1024,
				},
				OutputKey: "summary",
				Enabled:   true,
			},
		},
	}
}
