package main

import (
	"context"
	"log/slog"

	cli "github.com/urfave/cli/v3"

	"github.com/voxflow/voxflow/pkg/cmd"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/persistence/redis"
	"github.com/voxflow/voxflow/pkg/scheduler"
	"github.com/voxflow/voxflow/pkg/workflow"
)

// newProcessedStore uses Redis when configured so repeated CLI invocations
// stay idempotent across processes; otherwise a process-local store.
func newProcessedStore(ctx context.Context, command *cli.Command) (persistence.ProcessedStore, error) {
	redisURL := command.String("redis-url")
	if redisURL == "" {
		return persistence.NewMemoryProcessedStore(), nil
	}

	return redis.NewProcessedStoreFromURL(ctx, redisURL)
}

func newScheduler(
	ctx context.Context,
	command *cli.Command,
	logger *slog.Logger,
	p persistence.Persistence,
) (*scheduler.AutoRunScheduler, error) {
	engine := cmd.NewEngine(logger, p, engineConfig(command))
	repository := workflow.NewRepository(p.WorkflowRepository())

	processed, err := newProcessedStore(ctx, command)
	if err != nil {
		return nil, err
	}

	return scheduler.NewAutoRunScheduler(repository, engine.Backend, processed, true, logger), nil
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:    "process",
		Aliases: []string{"p"},
		Usage:   "Run the auto-run workflow batch against a transcript file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "transcript",
				Aliases:  []string{"t"},
				Usage:    "Path to the transcript text file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the processed-flag store (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			setupLogger(command)
			logger := log.WithModule("cli")

			transcript, err := readTranscript(command.String("transcript"))
			if err != nil {
				return err
			}

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			err = p.TranscriptSpool().SaveTranscript(ctx, transcript)
			if err != nil {
				return err
			}

			autoRun, err := newScheduler(ctx, command, logger, p)
			if err != nil {
				return err
			}

			return autoRun.Process(ctx, transcript)
		},
	}
}

func reprocessCommand() *cli.Command {
	return &cli.Command{
		Name:  "reprocess",
		Usage: "Clear a transcript's processed flag and run the batch again",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "transcript-id",
				Usage:    "Id of a spooled transcript",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the processed-flag store (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			setupLogger(command)
			logger := log.WithModule("cli")

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			transcript, err := p.TranscriptSpool().TranscriptByID(ctx, command.String("transcript-id"))
			if err != nil {
				return err
			}

			autoRun, err := newScheduler(ctx, command, logger, p)
			if err != nil {
				return err
			}

			return autoRun.Reprocess(ctx, transcript)
		},
	}
}
