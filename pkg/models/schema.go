package models

// StepConfigSchema returns the JSON Schema describing the config variant of
// the given step type, used for edit-time validation of raw definitions
// before they are decoded. The schemas intentionally allow omitted newer
// fields; defaults are applied during decoding.
func StepConfigSchema(stepType StepType) (map[string]any, bool) {
	schema, ok := stepConfigSchemas[stepType]

	return schema, ok
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

var stringProp = map[string]any{"type": "string"}

// nonEmptyString is used for required fields: the decoded config structs
// marshal absent strings as "", so presence alone is not enough.
var nonEmptyString = map[string]any{"type": "string", "minLength": 1}
var boolProp = map[string]any{"type": "boolean"}
var numberProp = map[string]any{"type": "number"}
var integerProp = map[string]any{"type": "integer"}

var stepConfigSchemas = map[StepType]map[string]any{
	StepTypeLLM: objectSchema(map[string]any{
		"prompt":        nonEmptyString,
		"system_prompt": stringProp,
		"provider":      stringProp,
		"model":         stringProp,
		"temperature":   numberProp,
		"top_p":         numberProp,
		"max_tokens":    integerProp,
	}, "prompt"),
	StepTypeWebhook: objectSchema(map[string]any{
		"url":                nonEmptyString,
		"method":             map[string]any{"type": "string", "enum": []any{"GET", "POST", "PUT", "PATCH", "DELETE"}},
		"headers":            map[string]any{"type": "object", "additionalProperties": stringProp},
		"include_transcript": boolProp,
		"include_metadata":   boolProp,
		"body_template":      stringProp,
	}, "url"),
	StepTypeEmail: objectSchema(map[string]any{
		"to":      nonEmptyString,
		"subject": stringProp,
		"body":    stringProp,
	}, "to"),
	StepTypeNotification: objectSchema(map[string]any{
		"title": nonEmptyString,
		"body":  stringProp,
	}, "title"),
	StepTypeNotes: objectSchema(map[string]any{
		"title":  nonEmptyString,
		"body":   stringProp,
		"folder": stringProp,
	}, "title"),
	StepTypeReminders: objectSchema(map[string]any{
		"title":    nonEmptyString,
		"notes":    stringProp,
		"due_date": stringProp,
		"list":     stringProp,
	}, "title"),
	StepTypeCalendar: objectSchema(map[string]any{
		"title":      nonEmptyString,
		"notes":      stringProp,
		"start_date": stringProp,
		"end_date":   stringProp,
		"calendar":   stringProp,
	}, "title"),
	StepTypeClipboard: objectSchema(map[string]any{
		"content": stringProp,
	}),
	StepTypeSaveFile: objectSchema(map[string]any{
		"directory": stringProp,
		"filename":  nonEmptyString,
		"content":   stringProp,
	}, "filename"),
	StepTypeShell: objectSchema(map[string]any{
		"command":         nonEmptyString,
		"args":            map[string]any{"type": "array", "items": stringProp},
		"timeout_seconds": integerProp,
	}, "command"),
	StepTypeConditional: objectSchema(map[string]any{
		"expression": nonEmptyString,
	}, "expression"),
	StepTypeTransform: objectSchema(map[string]any{
		"operation": map[string]any{"type": "string", "enum": []any{
			"extractJSON", "extractList", "formatMarkdown", "summarize", "regex", "template",
		}},
		"max_length": integerProp,
		"pattern":    stringProp,
		"template":   stringProp,
	}, "operation"),
	StepTypeTrigger: objectSchema(map[string]any{
		"phrases":          map[string]any{"type": "array", "items": stringProp, "minItems": 1},
		"case_sensitive":   boolProp,
		"location":         map[string]any{"type": "string", "enum": []any{"start", "end", "anywhere"}},
		"stop_if_no_match": boolProp,
		"context_window":   integerProp,
	}, "phrases"),
	StepTypeIntentExtract: objectSchema(map[string]any{
		"strategy": map[string]any{"type": "string", "enum": []any{"keywords", "llm", "hybrid"}},
		"intents": map[string]any{"type": "array", "items": objectSchema(map[string]any{
			"name":               nonEmptyString,
			"synonyms":           map[string]any{"type": "array", "items": stringProp},
			"target_workflow_id": stringProp,
			"enabled":            boolProp,
		}, "name")},
		"confidence_threshold": numberProp,
		"provider":             stringProp,
		"model":                stringProp,
		"prompt":               stringProp,
	}),
	StepTypeExecuteWorkflows: objectSchema(map[string]any{
		"stop_on_error": boolProp,
		"parallel":      boolProp,
	}),
}
