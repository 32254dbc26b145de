package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/voxflow/voxflow/pkg/cmd"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/services"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a workflow definition file without saving it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			setupLogger(command)
			logger := log.WithModule("cli")

			data, err := os.ReadFile(command.String("file"))
			if err != nil {
				return fmt.Errorf("failed to read workflow file: %w", err)
			}

			var wf models.Workflow

			err = json.Unmarshal(data, &wf)
			if err != nil {
				return fmt.Errorf("workflow definition does not parse: %w", err)
			}

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			service := services.NewWorkflow(p, validator.New())

			err = service.Validate(&wf)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "workflow %q is valid (%d steps)\n", wf.Name, len(wf.Steps))

			return nil
		},
	}
}
