package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/protocol"
	"github.com/voxflow/voxflow/pkg/template"
)

// GeneratorResolver resolves a generation provider by id. An empty id means
// the default provider.
type GeneratorResolver interface {
	Generator(providerID string) (protocol.Generator, error)
}

// SubWorkflowRunner is the slice of the executor the dispatcher needs to
// route intent-dispatched sub-workflows. Implemented by Executor.
type SubWorkflowRunner interface {
	ListWorkflows(ctx context.Context) ([]*models.Workflow, error)
	RunWorkflow(ctx context.Context, logger *slog.Logger, workflowID string, executionCtx *models.ExecutionContext) (*models.WorkflowRun, error)
}

// Effectors bundles the external collaborators a dispatcher may call. Any
// nil effector makes its step types fail with an ExecutionError, which the
// backend capability set reflects up front.
type Effectors struct {
	HTTP      protocol.HTTPCaller
	Mail      protocol.MailComposer
	Notifier  protocol.Notifier
	Notes     protocol.NotesWriter
	Reminders protocol.ReminderWriter
	Calendar  protocol.CalendarWriter
	Clipboard protocol.Clipboard
	Files     protocol.FileSaver
	Shell     protocol.ShellRunner
}

// StepOutcome is the result of dispatching a single step.
type StepOutcome struct {
	Output        string
	ResolvedInput string

	// Provider and Model are set for llm steps only; the executor records
	// the first pair it sees on the run.
	Provider string
	Model    string
}

// Dispatcher maps a step's config variant to the matching effector or
// transform, producing one output string per step.
type Dispatcher struct {
	generators GeneratorResolver
	effectors  Effectors
	conditions models.ConditionEvaluator
	intents    *IntentExtractor
	subRunner  SubWorkflowRunner
}

func NewDispatcher(generators GeneratorResolver, effectors Effectors, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		generators: generators,
		effectors:  effectors,
		intents:    NewIntentExtractor(generators, logger),
	}
}

// BindRunner wires the executor back in for executeWorkflows recursion.
func (d *Dispatcher) BindRunner(runner SubWorkflowRunner) {
	d.subRunner = runner
}

// ExecuteStep runs one step against the context. The switch is exhaustive
// over the sealed config set; a config type without a case here is a bug in
// this package, surfaced as a ConfigurationError.
func (d *Dispatcher) ExecuteStep(
	ctx context.Context,
	logger *slog.Logger,
	step *models.Step,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	switch config := step.Config.(type) {
	case *models.LLMConfig:
		return d.executeLLM(ctx, step, config, executionCtx)
	case *models.WebhookConfig:
		return d.executeWebhook(ctx, step, config, executionCtx)
	case *models.EmailConfig:
		if d.effectors.Mail == nil {
			return nil, NewExecutionError(step, "no mail effector configured", nil)
		}

		return d.effect(step, template.Resolve(config.Body, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Mail.ComposeEmail(ctx,
				template.Resolve(config.To, executionCtx),
				template.Resolve(config.Subject, executionCtx),
				resolved)
		})
	case *models.NotificationConfig:
		if d.effectors.Notifier == nil {
			return nil, NewExecutionError(step, "no notification effector configured", nil)
		}

		return d.effect(step, template.Resolve(config.Body, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Notifier.Notify(ctx, template.Resolve(config.Title, executionCtx), resolved)
		})
	case *models.NotesConfig:
		if d.effectors.Notes == nil {
			return nil, NewExecutionError(step, "no notes effector configured", nil)
		}

		return d.effect(step, template.Resolve(config.Body, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Notes.CreateNote(ctx,
				template.Resolve(config.Title, executionCtx), resolved, config.Folder)
		})
	case *models.RemindersConfig:
		if d.effectors.Reminders == nil {
			return nil, NewExecutionError(step, "no reminders effector configured", nil)
		}

		return d.effect(step, template.Resolve(config.Title, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Reminders.CreateReminder(ctx, resolved,
				template.Resolve(config.Notes, executionCtx),
				template.Resolve(config.DueDate, executionCtx),
				config.List)
		})
	case *models.CalendarConfig:
		if d.effectors.Calendar == nil {
			return nil, NewExecutionError(step, "no calendar effector configured", nil)
		}

		return d.effect(step, template.Resolve(config.Title, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Calendar.CreateEvent(ctx, resolved,
				template.Resolve(config.Notes, executionCtx),
				template.Resolve(config.StartDate, executionCtx),
				template.Resolve(config.EndDate, executionCtx),
				config.Calendar)
		})
	case *models.ClipboardConfig:
		if d.effectors.Clipboard == nil {
			return nil, NewExecutionError(step, "no clipboard effector configured", nil)
		}

		content := config.Content
		if content == "" {
			content = "{{PREVIOUS_OUTPUT}}"
		}

		return d.effect(step, template.Resolve(content, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Clipboard.SetClipboard(ctx, resolved)
		})
	case *models.SaveFileConfig:
		if d.effectors.Files == nil {
			return nil, NewExecutionError(step, "no file effector configured", nil)
		}

		content := config.Content
		if content == "" {
			content = "{{PREVIOUS_OUTPUT}}"
		}

		return d.effect(step, template.Resolve(content, executionCtx), func(resolved string) (string, error) {
			return d.effectors.Files.SaveFile(ctx,
				template.Resolve(config.Directory, executionCtx),
				template.Resolve(config.Filename, executionCtx),
				resolved)
		})
	case *models.ShellConfig:
		return d.executeShell(ctx, step, config, executionCtx)
	case *models.ConditionalConfig:
		resolved := template.Resolve(config.Expression, executionCtx)
		if d.conditions.Evaluate(resolved) {
			return &StepOutcome{Output: "true", ResolvedInput: resolved}, nil
		}

		return &StepOutcome{Output: "false", ResolvedInput: resolved}, nil
	case *models.TransformConfig:
		output, err := applyTransform(config, executionCtx)
		if err != nil {
			return nil, err
		}

		return &StepOutcome{Output: output, ResolvedInput: string(config.Operation)}, nil
	case *models.TriggerConfig:
		return d.executeTrigger(logger, step, config, executionCtx)
	case *models.IntentExtractConfig:
		return d.executeIntentExtract(ctx, step, config, executionCtx)
	case *models.ExecuteWorkflowsConfig:
		return d.executeWorkflows(ctx, logger, step, config, executionCtx)
	}

	return nil, &ConfigurationError{StepID: step.ID, Reason: fmt.Sprintf("no dispatch for step type %q", step.Type)}
}

// effect resolves the step's primary field, invokes the OS effector and
// propagates permission/IO failures as ExecutionFailed.
func (d *Dispatcher) effect(step *models.Step, resolved string, invoke func(string) (string, error)) (*StepOutcome, error) {
	confirmation, err := invoke(resolved)
	if err != nil {
		return nil, NewExecutionError(step, "effector call failed", err)
	}

	return &StepOutcome{Output: confirmation, ResolvedInput: resolved}, nil
}

func (d *Dispatcher) executeLLM(
	ctx context.Context,
	step *models.Step,
	config *models.LLMConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	generator, err := d.generators.Generator(config.Provider)
	if err != nil {
		return nil, NewExecutionError(step, "no generation provider", err)
	}

	prompt := template.Resolve(config.Prompt, executionCtx)

	if config.SystemPrompt != "" {
		systemPrompt := template.Resolve(config.SystemPrompt, executionCtx)
		prompt = "System instructions:\n" + systemPrompt + "\n\n---\n\n" + prompt
	}

	model := config.Model
	if model == "" {
		model = generator.DefaultModel()
	}

	text, err := generator.Generate(ctx, protocol.GenerationRequest{
		Prompt:      prompt,
		Model:       model,
		Temperature: config.Temperature,
		TopP:        config.TopP,
		MaxTokens:   config.MaxTokens,
	})
	if err != nil {
		return nil, NewExecutionError(step, "generation call failed", err)
	}

	return &StepOutcome{
		Output:        text,
		ResolvedInput: prompt,
		Provider:      generator.ProviderID(),
		Model:         model,
	}, nil
}

func (d *Dispatcher) executeWebhook(
	ctx context.Context,
	step *models.Step,
	config *models.WebhookConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	if d.effectors.HTTP == nil {
		return nil, NewExecutionError(step, "no HTTP effector configured", nil)
	}

	payload := map[string]any{
		"outputs": executionCtx.OutputMap(),
	}

	if config.IncludeTranscript {
		payload["transcript"] = executionCtx.Transcript
	}

	if config.IncludeMetadata {
		payload["title"] = executionCtx.Title
		payload["date"] = executionCtx.Timestamp.Format(time.RFC3339)
	}

	if config.BodyTemplate != "" {
		resolved := template.Resolve(config.BodyTemplate, executionCtx)

		var custom map[string]any

		err := json.Unmarshal([]byte(resolved), &custom)
		if err != nil {
			return nil, NewExecutionError(step, "webhook body template is not a JSON object", err)
		}

		for key, value := range custom {
			payload[key] = value
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewExecutionError(step, "failed to encode webhook body", err)
	}

	method := config.Method
	if method == "" {
		method = "POST"
	}

	headers := make(map[string]string, len(config.Headers)+1)
	headers["Content-Type"] = "application/json"

	for key, value := range config.Headers {
		headers[key] = template.Resolve(value, executionCtx)
	}

	url := template.Resolve(config.URL, executionCtx)

	resp, err := d.effectors.HTTP.Call(ctx, protocol.HTTPRequest{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, NewExecutionError(step, "webhook call failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewExecutionError(step,
			fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}

	return &StepOutcome{Output: resp.Body, ResolvedInput: url}, nil
}

func (d *Dispatcher) executeShell(
	ctx context.Context,
	step *models.Step,
	config *models.ShellConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	if d.effectors.Shell == nil {
		return nil, NewExecutionError(step, "no shell effector configured", nil)
	}

	args := make([]string, len(config.Args))
	for i, arg := range config.Args {
		args[i] = template.Resolve(arg, executionCtx)
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second

	output, err := d.effectors.Shell.Run(ctx, config.Command, args, timeout)
	if err != nil {
		return nil, NewExecutionError(step, "shell command failed", err)
	}

	return &StepOutcome{Output: output, ResolvedInput: config.Command}, nil
}

func (d *Dispatcher) executeTrigger(
	logger *slog.Logger,
	step *models.Step,
	config *models.TriggerConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	match := MatchTrigger(config, executionCtx.Transcript)

	if !match.Matched {
		if config.StopIfNoMatch {
			return nil, ErrTriggerNotMatched
		}

		executionCtx.TriggerContext = ""

		return &StepOutcome{Output: "", ResolvedInput: executionCtx.Transcript}, nil
	}

	logger.Debug("Trigger matched", "phrase", match.Phrase, "context", match.Context)

	executionCtx.TriggerContext = match.Context

	return &StepOutcome{Output: match.Context, ResolvedInput: executionCtx.Transcript}, nil
}

func (d *Dispatcher) executeIntentExtract(
	ctx context.Context,
	step *models.Step,
	config *models.IntentExtractConfig,
	executionCtx *models.ExecutionContext,
) (*StepOutcome, error) {
	matchedContext := executionCtx.TriggerContext
	if matchedContext == "" {
		matchedContext = executionCtx.Transcript
	}

	var workflows []*models.Workflow

	if d.subRunner != nil {
		var err error

		workflows, err = d.subRunner.ListWorkflows(ctx)
		if err != nil {
			return nil, NewExecutionError(step, "failed to list workflows for intent resolution", err)
		}
	}

	intents, err := d.intents.Extract(ctx, config, matchedContext, workflows)
	if err != nil {
		if IsConfigurationError(err) {
			return nil, err
		}

		return nil, NewExecutionError(step, "intent extraction failed", err)
	}

	executionCtx.Intents = intents

	summary, err := json.Marshal(intents)
	if err != nil {
		return nil, NewExecutionError(step, "failed to encode intents", err)
	}

	return &StepOutcome{Output: string(summary), ResolvedInput: matchedContext}, nil
}
