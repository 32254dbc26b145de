package models

import (
	"encoding/json"
	"fmt"
)

// StepType identifies one of the closed set of step kinds. The set is not
// extensible at runtime: the dispatcher switches exhaustively over it.
type StepType string

const (
	StepTypeLLM              StepType = "llm"
	StepTypeWebhook          StepType = "webhook"
	StepTypeEmail            StepType = "email"
	StepTypeNotification     StepType = "notification"
	StepTypeNotes            StepType = "appleNotes"
	StepTypeReminders        StepType = "appleReminders"
	StepTypeCalendar         StepType = "appleCalendar"
	StepTypeClipboard        StepType = "clipboard"
	StepTypeSaveFile         StepType = "saveFile"
	StepTypeShell            StepType = "shell"
	StepTypeConditional      StepType = "conditional"
	StepTypeTransform        StepType = "transform"
	StepTypeTrigger          StepType = "trigger"
	StepTypeIntentExtract    StepType = "intentExtract"
	StepTypeExecuteWorkflows StepType = "executeWorkflows"
)

// StepTypes lists every known step type in a stable order.
func StepTypes() []StepType {
	return []StepType{
		StepTypeLLM,
		StepTypeWebhook,
		StepTypeEmail,
		StepTypeNotification,
		StepTypeNotes,
		StepTypeReminders,
		StepTypeCalendar,
		StepTypeClipboard,
		StepTypeSaveFile,
		StepTypeShell,
		StepTypeConditional,
		StepTypeTransform,
		StepTypeTrigger,
		StepTypeIntentExtract,
		StepTypeExecuteWorkflows,
	}
}

// Condition gates a step. A false result skips the step only when SkipOnFail
// is set; a false result with SkipOnFail unset still executes the step. That
// asymmetry is a compatibility contract, not an accident.
type Condition struct {
	Expression string `json:"expression"`
	SkipOnFail bool   `json:"skip_on_fail"`
}

// Step is one typed unit of work in a workflow.
type Step struct {
	ID        string     `json:"id"         validate:"required"`
	Type      StepType   `json:"type"       validate:"required"`
	Name      string     `json:"name,omitempty"`
	Config    StepConfig `json:"-"`
	OutputKey string     `json:"output_key"`
	Enabled   bool       `json:"enabled"`
	Condition *Condition `json:"condition,omitempty"`
}

type stepEnvelope struct {
	ID        string          `json:"id"`
	Type      StepType        `json:"type"`
	Name      string          `json:"name,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
	OutputKey string          `json:"output_key"`
	Enabled   *bool           `json:"enabled"`
	Condition *Condition      `json:"condition,omitempty"`
}

// UnmarshalJSON decodes the envelope, then the type-matched config variant.
// Missing newer fields fall back to documented defaults.
func (s *Step) UnmarshalJSON(data []byte) error {
	var env stepEnvelope

	err := json.Unmarshal(data, &env)
	if err != nil {
		return err
	}

	config, err := decodeStepConfig(env.Type, env.Config)
	if err != nil {
		return fmt.Errorf("step %s: %w", env.ID, err)
	}

	s.ID = env.ID
	s.Type = env.Type
	s.Name = env.Name
	s.Config = config
	s.OutputKey = env.OutputKey
	s.Condition = env.Condition

	if env.Enabled == nil {
		s.Enabled = true
	} else {
		s.Enabled = *env.Enabled
	}

	return nil
}

// MarshalJSON writes the envelope form consumed by UnmarshalJSON.
func (s *Step) MarshalJSON() ([]byte, error) {
	var (
		raw json.RawMessage
		err error
	)

	if s.Config != nil {
		raw, err = json.Marshal(s.Config)
		if err != nil {
			return nil, err
		}
	}

	enabled := s.Enabled

	return json.Marshal(stepEnvelope{
		ID:        s.ID,
		Type:      s.Type,
		Name:      s.Name,
		Config:    raw,
		OutputKey: s.OutputKey,
		Enabled:   &enabled,
		Condition: s.Condition,
	})
}
