package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/voxflow/voxflow/pkg/eventbus"
	"github.com/voxflow/voxflow/pkg/events"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/scheduler"
)

// WorkerManager subscribes to transcript events and drives the auto-run
// scheduler. A periodic spool sweep picks up transcripts whose captured
// event was lost.
type WorkerManager struct {
	id            string
	logger        *slog.Logger
	spool         persistence.TranscriptSpool
	eventBus      eventbus.EventBus
	autoRun       *scheduler.AutoRunScheduler
	sweepSchedule string
	cron          *cron.Cron
}

func NewWorkerManager(
	id string,
	spool persistence.TranscriptSpool,
	eventBus eventbus.EventBus,
	autoRun *scheduler.AutoRunScheduler,
	sweepSchedule string,
	logger *slog.Logger,
) *WorkerManager {
	return &WorkerManager{
		id:            id,
		logger:        logger.With("module", "voxflow-worker", "worker_id", id),
		spool:         spool,
		eventBus:      eventBus,
		autoRun:       autoRun,
		sweepSchedule: sweepSchedule,
		cron:          cron.New(),
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager", "worker_id", w.id)

	err := w.eventBus.Handle(events.TranscriptCapturedEvent, w.handleTranscriptCaptured)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.TranscriptReprocessEvent, w.handleTranscriptReprocess)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	_, err = w.cron.AddFunc(w.sweepSchedule, func() {
		w.sweepSpool(ctx)
	})
	if err != nil {
		return err
	}

	w.cron.Start()

	w.logger.InfoContext(ctx, "Worker started successfully",
		"sweep_schedule", w.sweepSchedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	stopCtx := w.cron.Stop()
	<-stopCtx.Done()

	return nil
}

func (w *WorkerManager) handleTranscriptCaptured(ctx context.Context, event any) error {
	capturedEvent, ok := event.(*events.TranscriptCaptured)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TranscriptCaptured")

		return nil
	}

	logger := w.logger.With(
		"transcript_id", capturedEvent.TranscriptID,
		"event_id", capturedEvent.ID,
	)
	logger.InfoContext(ctx, "Processing transcript captured event")

	transcript, err := w.spool.TranscriptByID(ctx, capturedEvent.TranscriptID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch transcript", "error", err)

		return err
	}

	return w.autoRun.Process(ctx, transcript)
}

func (w *WorkerManager) handleTranscriptReprocess(ctx context.Context, event any) error {
	reprocessEvent, ok := event.(*events.TranscriptReprocess)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TranscriptReprocess")

		return nil
	}

	logger := w.logger.With(
		"transcript_id", reprocessEvent.TranscriptID,
		"event_id", reprocessEvent.ID,
	)
	logger.InfoContext(ctx, "Processing transcript reprocess event")

	transcript, err := w.spool.TranscriptByID(ctx, reprocessEvent.TranscriptID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch transcript", "error", err)

		return err
	}

	return w.autoRun.Reprocess(ctx, transcript)
}

// sweepSpool runs the scheduler over every spooled transcript. Processed
// ones are skipped by the scheduler's own flag check, so the sweep only
// costs work for transcripts that actually slipped through.
func (w *WorkerManager) sweepSpool(ctx context.Context) {
	transcripts, err := w.spool.Transcripts(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Spool sweep failed to list transcripts", "error", err)

		return
	}

	w.logger.DebugContext(ctx, "Sweeping transcript spool", "transcripts", len(transcripts))

	for _, transcript := range transcripts {
		err := w.autoRun.Process(ctx, transcript)
		if err != nil {
			w.logger.ErrorContext(ctx, "Spool sweep failed for transcript",
				"transcript_id", transcript.ID, "error", err)
		}
	}
}
