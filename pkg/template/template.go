// Package template substitutes {{KEY}} placeholders against a run context.
//
// The language is deliberately minimal: no expressions, no functions, no
// escaping. Substitution happens in a fixed order so that re-resolving the
// same template against an unchanged context always yields the same string:
// the literal fields TRANSCRIPT, TITLE and DATE first, then every output key
// from the context's insertion log, then the PREVIOUS_OUTPUT and OUTPUT
// aliases with the value of the last-inserted output. Unknown placeholders
// are left verbatim.
package template

import (
	"strings"
	"time"

	"github.com/voxflow/voxflow/pkg/models"
)

const (
	PlaceholderTranscript     = "TRANSCRIPT"
	PlaceholderTitle          = "TITLE"
	PlaceholderDate           = "DATE"
	PlaceholderPreviousOutput = "PREVIOUS_OUTPUT"
	PlaceholderOutput         = "OUTPUT"
)

// Resolve substitutes every known placeholder in template from the context.
func Resolve(template string, executionCtx *models.ExecutionContext) string {
	if template == "" || !strings.Contains(template, "{{") {
		return template
	}

	result := template
	result = replace(result, PlaceholderTranscript, executionCtx.Transcript)
	result = replace(result, PlaceholderTitle, executionCtx.Title)
	result = replace(result, PlaceholderDate, executionCtx.Timestamp.Format(time.RFC3339))

	// Deduped from the tail of the log: each key substitutes its latest
	// write, so later steps sharing a key win deterministically.
	entries := executionCtx.Outputs()
	seen := make(map[string]bool, len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		if seen[entries[i].Key] {
			continue
		}

		seen[entries[i].Key] = true
		result = replace(result, entries[i].Key, entries[i].Value)
	}

	last, ok := executionCtx.LastOutput()
	if !ok {
		return result
	}

	result = replace(result, PlaceholderPreviousOutput, last)
	result = replace(result, PlaceholderOutput, last)

	return result
}

func replace(template, key, value string) string {
	return strings.ReplaceAll(template, "{{"+key+"}}", value)
}
