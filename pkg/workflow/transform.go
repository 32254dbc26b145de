package workflow

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/template"
)

// applyTransform runs one of the six fixed transform operations against the
// most recent output (or the transcript when no step has produced output
// yet). Operations that find nothing to act on pass the input through
// unchanged rather than failing.
func applyTransform(config *models.TransformConfig, executionCtx *models.ExecutionContext) (string, error) {
	input, ok := executionCtx.LastOutput()
	if !ok {
		input = executionCtx.Transcript
	}

	switch config.Operation {
	case models.TransformExtractJSON:
		return extractJSON(input), nil
	case models.TransformExtractList:
		return extractList(input), nil
	case models.TransformFormatMarkdown:
		// The content is already markdown-friendly text.
		return input, nil
	case models.TransformSummarize:
		return summarize(input, config.MaxLength), nil
	case models.TransformRegex:
		return extractRegex(input, config.Pattern)
	case models.TransformTemplate:
		return template.Resolve(config.Template, executionCtx), nil
	}

	return "", &ConfigurationError{Reason: "unknown transform operation " + string(config.Operation)}
}

// extractJSON returns the first bracketed fragment that parses as valid
// JSON, else the input unchanged. It attempts a decode from every opening
// bracket, so an invalid `{...}` early in the text does not mask a valid
// object after it.
func extractJSON(input string) string {
	for i, r := range input {
		if r != '{' && r != '[' {
			continue
		}

		var fragment json.RawMessage

		err := json.NewDecoder(strings.NewReader(input[i:])).Decode(&fragment)
		if err == nil {
			return string(fragment)
		}
	}

	return input
}

// extractList splits on newlines, trims, drops empties and bullets each line.
func extractList(input string) string {
	lines := strings.Split(input, "\n")
	items := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		items = append(items, "- "+strings.TrimLeft(line, "-*• \t"))
	}

	return strings.Join(items, "\n")
}

// summarize truncates to maxLength runes, appending an ellipsis marker when
// anything was cut.
func summarize(input string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = models.DefaultSummarizeLength
	}

	runes := []rune(input)
	if len(runes) <= maxLength {
		return input
	}

	return string(runes[:maxLength]) + "..."
}

// extractRegex returns the first match of pattern, else the input unchanged.
func extractRegex(input, pattern string) (string, error) {
	if pattern == "" {
		return input, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", &ConfigurationError{Reason: "invalid regex pattern: " + err.Error()}
	}

	match := re.FindString(input)
	if match == "" {
		return input, nil
	}

	return match, nil
}
