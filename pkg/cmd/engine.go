package cmd

import (
	"log/slog"
	"os"

	"github.com/voxflow/voxflow/pkg/backend"
	"github.com/voxflow/voxflow/pkg/effectors"
	"github.com/voxflow/voxflow/pkg/generation"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/registry"
	"github.com/voxflow/voxflow/pkg/workflow"
)

// EngineConfig carries the flag-derived settings for engine assembly.
type EngineConfig struct {
	// ProviderID names the generation provider ("openai", "ollama", ...).
	ProviderID string
	// ProviderBaseURL is the OpenAI-compatible endpoint base.
	ProviderBaseURL string
	// ProviderAPIKey may be empty for local providers.
	ProviderAPIKey string
	// ProviderModel is the model used when a step does not pin one.
	ProviderModel string

	// SaveRoot bounds saveFile steps.
	SaveRoot string
	// AllowedCommands is the shell-step executable allowlist.
	AllowedCommands []string
}

// Engine bundles the assembled execution stack.
type Engine struct {
	Backend  *backend.Local
	Executor *workflow.Executor
	Registry *registry.Registry
}

// NewEngine wires registry, effectors, dispatcher, executor and the local
// backend against the given persistence.
func NewEngine(logger *slog.Logger, p persistence.Persistence, config EngineConfig) *Engine {
	reg := registry.NewRegistry(logger)

	if config.ProviderBaseURL != "" {
		reg.RegisterGenerator(generation.NewFactory(config.ProviderID), map[string]any{
			"base_url":      config.ProviderBaseURL,
			"api_key":       config.ProviderAPIKey,
			"default_model": config.ProviderModel,
		})
	}

	automator := effectors.NewConsoleAutomator(logger)

	saveRoot := config.SaveRoot
	if saveRoot == "" {
		saveRoot, _ = os.Getwd()
	}

	dispatcher := workflow.NewDispatcher(reg, workflow.Effectors{
		HTTP:      effectors.NewHTTPCaller(),
		Mail:      automator,
		Notifier:  automator,
		Notes:     automator,
		Reminders: automator,
		Calendar:  automator,
		Clipboard: automator,
		Files:     effectors.NewFileSaver(saveRoot),
		Shell:     effectors.NewShellRunner(config.AllowedCommands),
	}, logger)

	repository := workflow.NewRepository(p.WorkflowRepository())
	executor := workflow.NewExecutor(repository, p.RunRepository(), dispatcher, logger)
	local := backend.NewLocal(executor, dispatcher, logger)

	return &Engine{
		Backend:  local,
		Executor: executor,
		Registry: reg,
	}
}
