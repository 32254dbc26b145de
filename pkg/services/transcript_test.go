package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxflow/voxflow/pkg/eventbus"
	"github.com/voxflow/voxflow/pkg/events"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/persistence/file"
)

type capturingPublisher struct {
	published []eventbus.Event
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, event)

	return nil
}

func newTranscriptService(t *testing.T, publisher eventbus.EventPublisher) *Transcript {
	t.Helper()

	return NewTranscript(file.NewPersistence(t.TempDir()).TranscriptSpool(), publisher, slog.Default())
}

func TestIngest(t *testing.T) {
	publisher := &capturingPublisher{}
	service := newTranscriptService(t, publisher)

	transcript, err := service.Ingest(context.Background(), &models.Transcript{
		Title: "Standup",
		Text:  "note to self follow up with legal",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, transcript.ID)
	assert.False(t, transcript.CreatedAt.IsZero())

	stored, err := service.FetchByID(context.Background(), transcript.ID)
	require.NoError(t, err)
	assert.Equal(t, "note to self follow up with legal", stored.Text)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TranscriptCapturedEvent, publisher.published[0].GetType())

	captured, ok := publisher.published[0].(events.TranscriptCaptured)
	require.True(t, ok)
	assert.Equal(t, transcript.ID, captured.TranscriptID)
}

func TestIngestRejectsEmptyText(t *testing.T) {
	service := newTranscriptService(t, &capturingPublisher{})

	_, err := service.Ingest(context.Background(), &models.Transcript{Text: "   "})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestIngestSurvivesPublishFailure(t *testing.T) {
	// The spool sweep picks up what the bus missed, so a publish failure must
	// not fail ingestion.
	publisher := &capturingPublisher{err: errors.New("broker down")}
	service := newTranscriptService(t, publisher)

	transcript, err := service.Ingest(context.Background(), &models.Transcript{Text: "hello"})
	require.NoError(t, err)

	_, err = service.FetchByID(context.Background(), transcript.ID)
	require.NoError(t, err)
}

func TestRequestReprocess(t *testing.T) {
	publisher := &capturingPublisher{}
	service := newTranscriptService(t, publisher)

	transcript, err := service.Ingest(context.Background(), &models.Transcript{Text: "hello"})
	require.NoError(t, err)

	publisher.published = nil

	require.NoError(t, service.RequestReprocess(context.Background(), transcript.ID))
	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TranscriptReprocessEvent, publisher.published[0].GetType())
}

func TestRequestReprocessUnknownTranscript(t *testing.T) {
	service := newTranscriptService(t, &capturingPublisher{})

	err := service.RequestReprocess(context.Background(), "missing")
	assert.True(t, persistence.IsTranscriptNotFound(err))
}
