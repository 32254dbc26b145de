package web

import "github.com/voxflow/voxflow/pkg/models"

// CreateWorkflowRequest is the payload for POST /workflows. Steps arrive in
// the envelope form and decode into typed config variants.
type CreateWorkflowRequest struct {
	Name         string         `json:"name"           validate:"required,min=1"`
	Description  string         `json:"description,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	Steps        []*models.Step `json:"steps"          validate:"required,min=1"`
	Enabled      *bool          `json:"enabled,omitempty"`
	IsPinned     bool           `json:"is_pinned,omitempty"`
	AutoRun      bool           `json:"auto_run,omitempty"`
	AutoRunOrder int            `json:"auto_run_order,omitempty"`
}

// UpdateWorkflowRequest is the partial-update payload for PUT /workflows/:id.
type UpdateWorkflowRequest struct {
	Name         *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Description  *string        `json:"description,omitempty"`
	Icon         *string        `json:"icon,omitempty"`
	Steps        []*models.Step `json:"steps,omitempty"`
	Enabled      *bool          `json:"enabled,omitempty"`
	IsPinned     *bool          `json:"is_pinned,omitempty"`
	AutoRun      *bool          `json:"auto_run,omitempty"`
	AutoRunOrder *int           `json:"auto_run_order,omitempty"`
}

// IngestTranscriptRequest is the payload for POST /transcripts.
type IngestTranscriptRequest struct {
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"   validate:"required,min=1"`
	Source string `json:"source,omitempty"`
}
