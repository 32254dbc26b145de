package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxflow/voxflow/pkg/eventbus"
	"github.com/voxflow/voxflow/pkg/events"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// Transcript ingests captured transcripts: spool first, then announce on the
// event bus for the worker to pick up.
type Transcript struct {
	spool     persistence.TranscriptSpool
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewTranscript(spool persistence.TranscriptSpool, publisher eventbus.EventPublisher, logger *slog.Logger) *Transcript {
	return &Transcript{
		spool:     spool,
		publisher: publisher,
		logger:    logger.With("module", "transcript_service"),
	}
}

// Ingest stores the transcript and publishes TranscriptCaptured. A publish
// failure is logged but does not fail ingestion: the worker's spool sweep
// picks up anything the bus missed.
func (t *Transcript) Ingest(ctx context.Context, transcript *models.Transcript) (*models.Transcript, error) {
	if strings.TrimSpace(transcript.Text) == "" {
		return nil, NewValidationError("Ingest", "transcript text is required", ErrTranscriptTextMissing)
	}

	if transcript.ID == "" {
		transcript.ID = uuid.New().String()
	}

	if transcript.CreatedAt.IsZero() {
		transcript.CreatedAt = time.Now().UTC()
	}

	err := t.spool.SaveTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	event := events.TranscriptCaptured{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.TranscriptCapturedEvent,
			Timestamp: time.Now().UTC(),
		},
		TranscriptID: transcript.ID,
	}

	err = t.publisher.Publish(ctx, transcript.ID, event)
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to publish transcript captured event",
			"transcript_id", transcript.ID, "error", err)
	}

	return transcript, nil
}

// RequestReprocess publishes an explicit reprocess request for a spooled
// transcript.
func (t *Transcript) RequestReprocess(ctx context.Context, transcriptID string) error {
	_, err := t.spool.TranscriptByID(ctx, transcriptID)
	if err != nil {
		return err
	}

	event := events.TranscriptReprocess{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.TranscriptReprocessEvent,
			Timestamp: time.Now().UTC(),
		},
		TranscriptID: transcriptID,
	}

	return t.publisher.Publish(ctx, transcriptID, event)
}

func (t *Transcript) List(ctx context.Context) ([]*models.Transcript, error) {
	return t.spool.Transcripts(ctx)
}

func (t *Transcript) FetchByID(ctx context.Context, id string) (*models.Transcript, error) {
	return t.spool.TranscriptByID(ctx, id)
}
