package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/voxflow/voxflow/pkg/cmd"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/workflow"
)

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

func readTranscript(path string) (*models.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, workflow.ErrNoInput
	}

	name := filepath.Base(path)

	return &models.Transcript{
		ID:        strings.TrimSuffix(name, filepath.Ext(name)),
		Title:     strings.TrimSuffix(name, filepath.Ext(name)),
		Text:      text,
		Source:    "cli",
		CreatedAt: time.Now().UTC(),
	}, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run one workflow against a transcript file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Workflow id to run",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "transcript",
				Aliases:  []string{"t"},
				Usage:    "Path to the transcript text file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			setupLogger(command)
			logger := log.WithModule("cli")

			transcript, err := readTranscript(command.String("transcript"))
			if err != nil {
				return err
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer persistence.Close(ctx)

			engine := cmd.NewEngine(logger, persistence, engineConfig(command))

			target, err := persistence.WorkflowRepository().WorkflowByID(ctx, command.String("workflow"))
			if err != nil {
				return err
			}

			executionCtx := models.NewExecutionContext(transcript.Text, transcript.Title, transcript.CreatedAt)

			run, err := engine.Backend.Execute(ctx, target, executionCtx)
			if workflow.IsTriggerNotMatched(err) {
				logger.InfoContext(ctx, "Trigger not matched, nothing to do",
					"workflow_id", target.ID)

				return nil
			}

			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, run.Output)

			return nil
		},
	}
}
