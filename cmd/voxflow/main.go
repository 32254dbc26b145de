package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/voxflow/voxflow/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "voxflow",
		Usage:                 "Run transcript automation workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Persistence URL (file path or postgres://...)",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "Generation provider id",
				Value:   "openai",
				Sources: cli.EnvVars("VOXFLOW_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "provider-base-url",
				Usage:   "OpenAI-compatible endpoint base URL",
				Value:   "https://api.openai.com/v1",
				Sources: cli.EnvVars("VOXFLOW_PROVIDER_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "provider-api-key",
				Usage:   "API key for the generation provider",
				Sources: cli.EnvVars("VOXFLOW_PROVIDER_API_KEY", "OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "provider-model",
				Usage:   "Default model when a step does not pin one",
				Value:   "gpt-4o-mini",
				Sources: cli.EnvVars("VOXFLOW_PROVIDER_MODEL"),
			},
			&cli.StringFlag{
				Name:    "save-root",
				Usage:   "Directory saveFile steps may write below",
				Sources: cli.EnvVars("VOXFLOW_SAVE_ROOT"),
			},
			&cli.StringSliceFlag{
				Name:    "allow-command",
				Usage:   "Executable allowed for shell steps (repeatable)",
				Sources: cli.EnvVars("VOXFLOW_ALLOWED_COMMANDS"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			processCommand(),
			reprocessCommand(),
			validateCommand(),
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(command *cli.Command) {
	log.Setup(command.String("log-level"))
}
