package models

import (
	"encoding/json"
	"fmt"
)

// Defaults applied when older definitions omit newer fields.
const (
	DefaultSummarizeLength      = 500
	DefaultShellTimeoutSeconds  = 10
	DefaultTriggerContextWindow = 20
	DefaultConfidenceThreshold  = 0.5
)

// StepConfig is the closed set of per-type step configurations. The
// interface is sealed: only types in this package implement it, so the
// dispatcher's type switch covers every possible variant.
type StepConfig interface {
	stepConfig()
}

// LLMConfig drives the generation-provider effector. SystemPrompt, when
// present, is prepended as a structured preamble to the user prompt.
type LLMConfig struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Provider     string  `json:"provider,omitempty"`
	Model        string  `json:"model,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	TopP         float64 `json:"top_p,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// WebhookConfig drives the HTTP effector. The JSON body always carries all
// accumulated outputs; transcript and title/date metadata are opt-in, and
// BodyTemplate (a JSON object template) is merged on top when present.
type WebhookConfig struct {
	URL               string            `json:"url"`
	Method            string            `json:"method,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	IncludeTranscript bool              `json:"include_transcript"`
	IncludeMetadata   bool              `json:"include_metadata"`
	BodyTemplate      string            `json:"body_template,omitempty"`
}

type EmailConfig struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type NotificationConfig struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NotesConfig struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Folder string `json:"folder,omitempty"`
}

type RemindersConfig struct {
	Title   string `json:"title"`
	Notes   string `json:"notes,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	List    string `json:"list,omitempty"`
}

type CalendarConfig struct {
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Calendar  string `json:"calendar,omitempty"`
}

type ClipboardConfig struct {
	Content string `json:"content"`
}

type SaveFileConfig struct {
	Directory string `json:"directory"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
}

// ShellConfig runs a local executable. Unlike network steps, shell
// executions are bounded by a hard wall-clock timeout and killed past it.
type ShellConfig struct {
	Command        string   `json:"command"`
	Args           []string `json:"args,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

type ConditionalConfig struct {
	Expression string `json:"expression"`
}

// TransformOperation selects one of the fixed transform behaviors.
type TransformOperation string

const (
	TransformExtractJSON    TransformOperation = "extractJSON"
	TransformExtractList    TransformOperation = "extractList"
	TransformFormatMarkdown TransformOperation = "formatMarkdown"
	TransformSummarize      TransformOperation = "summarize"
	TransformRegex          TransformOperation = "regex"
	TransformTemplate       TransformOperation = "template"
)

type TransformConfig struct {
	Operation TransformOperation `json:"operation"`
	MaxLength int                `json:"max_length,omitempty"`
	Pattern   string             `json:"pattern,omitempty"`
	Template  string             `json:"template,omitempty"`
}

// TriggerLocation restricts where in the transcript the phrase may appear.
type TriggerLocation string

const (
	TriggerLocationStart    TriggerLocation = "start"
	TriggerLocationEnd      TriggerLocation = "end"
	TriggerLocationAnywhere TriggerLocation = "anywhere"
)

type TriggerConfig struct {
	Phrases       []string        `json:"phrases"`
	CaseSensitive bool            `json:"case_sensitive"`
	Location      TriggerLocation `json:"location,omitempty"`
	StopIfNoMatch bool            `json:"stop_if_no_match"`
	ContextWindow int             `json:"context_window,omitempty"`
}

// IntentStrategy selects how intents are extracted from the trigger context.
type IntentStrategy string

const (
	IntentStrategyKeywords IntentStrategy = "keywords"
	IntentStrategyLLM      IntentStrategy = "llm"
	IntentStrategyHybrid   IntentStrategy = "hybrid"
)

type IntentExtractConfig struct {
	Strategy            IntentStrategy     `json:"strategy,omitempty"`
	Intents             []IntentDefinition `json:"intents,omitempty"`
	ConfidenceThreshold float64            `json:"confidence_threshold,omitempty"`
	Provider            string             `json:"provider,omitempty"`
	Model               string             `json:"model,omitempty"`
	Prompt              string             `json:"prompt,omitempty"`
}

type ExecuteWorkflowsConfig struct {
	StopOnError bool `json:"stop_on_error"`
	Parallel    bool `json:"parallel"`
}

func (*LLMConfig) stepConfig()              {}
func (*WebhookConfig) stepConfig()          {}
func (*EmailConfig) stepConfig()            {}
func (*NotificationConfig) stepConfig()     {}
func (*NotesConfig) stepConfig()            {}
func (*RemindersConfig) stepConfig()        {}
func (*CalendarConfig) stepConfig()         {}
func (*ClipboardConfig) stepConfig()        {}
func (*SaveFileConfig) stepConfig()         {}
func (*ShellConfig) stepConfig()            {}
func (*ConditionalConfig) stepConfig()      {}
func (*TransformConfig) stepConfig()        {}
func (*TriggerConfig) stepConfig()          {}
func (*IntentExtractConfig) stepConfig()    {}
func (*ExecuteWorkflowsConfig) stepConfig() {}

// decodeStepConfig decodes the raw config JSON into the variant matching the
// step type, applying documented defaults for omitted newer fields.
func decodeStepConfig(stepType StepType, raw json.RawMessage) (StepConfig, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	unmarshal := func(dst StepConfig) (StepConfig, error) {
		err := json.Unmarshal(raw, dst)
		if err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", stepType, err)
		}

		return dst, nil
	}

	switch stepType {
	case StepTypeLLM:
		return unmarshal(&LLMConfig{})
	case StepTypeWebhook:
		return unmarshal(&WebhookConfig{})
	case StepTypeEmail:
		return unmarshal(&EmailConfig{})
	case StepTypeNotification:
		return unmarshal(&NotificationConfig{})
	case StepTypeNotes:
		return unmarshal(&NotesConfig{})
	case StepTypeReminders:
		return unmarshal(&RemindersConfig{})
	case StepTypeCalendar:
		return unmarshal(&CalendarConfig{})
	case StepTypeClipboard:
		return unmarshal(&ClipboardConfig{})
	case StepTypeSaveFile:
		return unmarshal(&SaveFileConfig{})
	case StepTypeShell:
		config, err := unmarshal(&ShellConfig{})
		if err != nil {
			return nil, err
		}

		shell := config.(*ShellConfig)
		if shell.TimeoutSeconds <= 0 {
			shell.TimeoutSeconds = DefaultShellTimeoutSeconds
		}

		return shell, nil
	case StepTypeConditional:
		return unmarshal(&ConditionalConfig{})
	case StepTypeTransform:
		config, err := unmarshal(&TransformConfig{})
		if err != nil {
			return nil, err
		}

		transform := config.(*TransformConfig)
		if transform.MaxLength <= 0 {
			transform.MaxLength = DefaultSummarizeLength
		}

		return transform, nil
	case StepTypeTrigger:
		config, err := unmarshal(&TriggerConfig{})
		if err != nil {
			return nil, err
		}

		trigger := config.(*TriggerConfig)
		if trigger.Location == "" {
			trigger.Location = TriggerLocationAnywhere
		}

		if trigger.ContextWindow <= 0 {
			trigger.ContextWindow = DefaultTriggerContextWindow
		}

		return trigger, nil
	case StepTypeIntentExtract:
		config, err := unmarshal(&IntentExtractConfig{})
		if err != nil {
			return nil, err
		}

		intent := config.(*IntentExtractConfig)
		if intent.Strategy == "" {
			intent.Strategy = IntentStrategyKeywords
		}

		if intent.ConfidenceThreshold <= 0 {
			intent.ConfidenceThreshold = DefaultConfidenceThreshold
		}

		if intent.Prompt == "" {
			intent.Prompt = DefaultExtractionPrompt
		}

		return intent, nil
	case StepTypeExecuteWorkflows:
		return unmarshal(&ExecuteWorkflowsConfig{})
	}

	return nil, fmt.Errorf("unknown step type %q", stepType)
}
