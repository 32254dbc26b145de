package models

// DoNothingTargetID is the reserved target meaning "detect only, dispatch
// nothing". It short-circuits target resolution regardless of any workflow
// name collisions.
const DoNothingTargetID = "do-nothing"

// DefaultExtractionPrompt is the fixed prompt template used by the llm and
// hybrid intent strategies. {{ACTIONS}} is replaced with the recognized
// action names, {{CONTEXT}} with the trigger-matched transcript fragment.
const DefaultExtractionPrompt = `You are a voice command router. The user said:

"{{CONTEXT}}"

Recognized actions: {{ACTIONS}}

For each action the user is asking for, output one line in the exact format:
ACTION | PARAM | CONFIDENCE

where ACTION is one of the recognized action names, PARAM is the argument of
the request (or empty), and CONFIDENCE is a number between 0 and 1. Output
nothing else.`

// IntentDefinition is one recognizable voice-command intent. When
// TargetWorkflowID is empty the target is resolved by matching the intent
// name and synonyms against workflow names.
type IntentDefinition struct {
	Name             string   `json:"name"`
	Synonyms         []string `json:"synonyms,omitempty"`
	TargetWorkflowID string   `json:"target_workflow_id,omitempty"`
	Enabled          bool     `json:"enabled"`
}

// ExtractedIntent is one classified user request, resolved to the workflow
// it should dispatch. An empty TargetWorkflowID means "detected, nothing to
// run".
type ExtractedIntent struct {
	Action           string  `json:"action"`
	Parameter        string  `json:"parameter,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	TargetWorkflowID string  `json:"target_workflow_id,omitempty"`
}
