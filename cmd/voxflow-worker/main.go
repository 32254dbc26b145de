package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/voxflow/voxflow/pkg/cmd"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/otelhelper"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/persistence/redis"
	"github.com/voxflow/voxflow/pkg/scheduler"
	"github.com/voxflow/voxflow/pkg/workflow"
)

func newProcessedStore(ctx context.Context, redisURL string) (persistence.ProcessedStore, error) {
	if redisURL == "" {
		return persistence.NewMemoryProcessedStore(), nil
	}

	return redis.NewProcessedStoreFromURL(ctx, redisURL)
}

func engineConfig(command *cli.Command) cmd.EngineConfig {
	return cmd.EngineConfig{
		ProviderID:      command.String("provider"),
		ProviderBaseURL: command.String("provider-base-url"),
		ProviderAPIKey:  command.String("provider-api-key"),
		ProviderModel:   command.String("provider-model"),
		SaveRoot:        command.String("save-root"),
		AllowedCommands: command.StringSlice("allow-command"),
	}
}

func newAutoRunScheduler(
	ctx context.Context,
	command *cli.Command,
	logger *slog.Logger,
	p persistence.Persistence,
) (*scheduler.AutoRunScheduler, error) {
	engine := cmd.NewEngine(logger, p, engineConfig(command))
	repository := workflow.NewRepository(p.WorkflowRepository())

	processed, err := newProcessedStore(ctx, command.String("redis-url"))
	if err != nil {
		return nil, err
	}

	return scheduler.NewAutoRunScheduler(
		repository,
		engine.Backend,
		processed,
		command.Bool("auto-run"),
		logger,
	), nil
}

func main() {
	command := &cli.Command{
		Name:                  "voxflow-worker",
		EnableShellCompletion: true,
		Usage:                 "Run auto-run workflows against captured transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Persistence URL (file path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the processed-flag store (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.BoolFlag{
				Name:    "auto-run",
				Usage:   "Enable the auto-run batch",
				Value:   true,
				Sources: cli.EnvVars("AUTO_RUN"),
			},
			&cli.StringFlag{
				Name:    "sweep-schedule",
				Usage:   "Cron schedule for the transcript spool sweep",
				Value:   "@every 5m",
				Sources: cli.EnvVars("SWEEP_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "Generation provider id",
				Value:   "openai",
				Sources: cli.EnvVars("PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "provider-base-url",
				Usage:   "OpenAI-compatible API base URL",
				Sources: cli.EnvVars("PROVIDER_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "provider-api-key",
				Usage:   "API key for the generation provider",
				Sources: cli.EnvVars("VOXFLOW_PROVIDER_API_KEY", "OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "provider-model",
				Usage:   "Model used when a step does not pin one",
				Sources: cli.EnvVars("PROVIDER_MODEL"),
			},
			&cli.StringFlag{
				Name:    "save-root",
				Usage:   "Directory that bounds saveFile steps",
				Sources: cli.EnvVars("SAVE_ROOT"),
			},
			&cli.StringSliceFlag{
				Name:    "allow-command",
				Usage:   "Executable allowed for shellCommand steps (repeatable)",
				Sources: cli.EnvVars("ALLOWED_COMMANDS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.SetupJSON(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("voxflow-worker").With("worker_id", workerID)

			logger.InfoContext(ctx, "Initializing voxflow worker")

			if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
				shutdown, err := otelhelper.Setup(ctx, "voxflow-worker")
				if err != nil {
					return err
				}

				defer func() {
					err := shutdown(context.Background())
					if err != nil {
						logger.ErrorContext(ctx, "Failed to shut down tracing", "error", err)
					}
				}()
			}

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := p.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "voxflow-worker", logger)
			if err != nil {
				return err
			}

			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			autoRun, err := newAutoRunScheduler(ctx, command, logger, p)
			if err != nil {
				return err
			}

			worker := NewWorkerManager(
				workerID,
				p.TranscriptSpool(),
				eventBus,
				autoRun,
				command.String("sweep-schedule"),
				logger,
			)

			return worker.Start(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		os.Exit(1)
	}
}
