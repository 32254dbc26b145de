// Package events defines the event types exchanged between the API and the
// worker.
package events

import (
	"time"

	"github.com/voxflow/voxflow/pkg/models"
)

type EventType string

// Topic is the single stream all voxflow events travel on.
const Topic = "voxflow.events"

const (
	EventMetadataKey     = "key"
	EventTypeMetadataKey = "event_type"
)

const (
	// TranscriptCapturedEvent announces a newly spooled transcript.
	TranscriptCapturedEvent EventType = "transcript.captured"

	// TranscriptReprocessEvent requests an explicit reprocess of a
	// transcript, clearing its processed flag first.
	TranscriptReprocessEvent EventType = "transcript.reprocess"

	// RunFinishedEvent announces a persisted workflow run.
	RunFinishedEvent EventType = "run.finished"

	// WorkflowFailedEvent announces a workflow aborted by a step failure.
	WorkflowFailedEvent EventType = "workflow.failed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	WorkerID  string    `json:"worker_id,omitempty"`
}

type TranscriptCaptured struct {
	BaseEvent

	TranscriptID string `json:"transcript_id"`
}

func (e TranscriptCaptured) GetType() EventType {
	return TranscriptCapturedEvent
}

type TranscriptReprocess struct {
	BaseEvent

	TranscriptID string `json:"transcript_id"`
}

func (e TranscriptReprocess) GetType() EventType {
	return TranscriptReprocessEvent
}

type RunFinished struct {
	BaseEvent

	RunID      string           `json:"run_id"`
	WorkflowID string           `json:"workflow_id"`
	Status     models.RunStatus `json:"status"`
}

func (e RunFinished) GetType() EventType {
	return RunFinishedEvent
}

type WorkflowFailed struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	Message    string `json:"message"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}
