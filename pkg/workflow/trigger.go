package workflow

import (
	"strings"

	"github.com/voxflow/voxflow/pkg/models"
)

// TriggerMatch is the outcome of scanning a transcript for trigger phrases.
type TriggerMatch struct {
	Matched bool
	Phrase  string

	// Context is the bounded window of words around the match, with the
	// trigger phrase itself removed. This is what the intent extractor
	// classifies.
	Context string
}

// MatchTrigger scans the transcript for any of the configured phrases at the
// configured location. It never fails: an unmatched trigger is an expected
// outcome, reported through Matched.
func MatchTrigger(config *models.TriggerConfig, transcript string) TriggerMatch {
	haystack := strings.TrimSpace(transcript)
	if haystack == "" || len(config.Phrases) == 0 {
		return TriggerMatch{}
	}

	search := haystack
	if !config.CaseSensitive {
		search = strings.ToLower(search)
	}

	for _, phrase := range config.Phrases {
		needle := strings.TrimSpace(phrase)
		if needle == "" {
			continue
		}

		if !config.CaseSensitive {
			needle = strings.ToLower(needle)
		}

		idx := matchAt(search, needle, config.Location)
		if idx < 0 {
			continue
		}

		return TriggerMatch{
			Matched: true,
			Phrase:  phrase,
			Context: contextWindow(haystack, search, idx, len(needle), config.ContextWindow),
		}
	}

	return TriggerMatch{}
}

func matchAt(haystack, needle string, location models.TriggerLocation) int {
	switch location {
	case models.TriggerLocationStart:
		if strings.HasPrefix(haystack, needle) {
			return 0
		}
	case models.TriggerLocationEnd:
		if strings.HasSuffix(haystack, needle) {
			return len(haystack) - len(needle)
		}
	default:
		return strings.Index(haystack, needle)
	}

	return -1
}

// contextWindow keeps up to window words on each side of the match span and
// drops the matched phrase itself. The match offsets index the searched
// (possibly case-folded) string, whose byte lengths can differ from the
// transcript's; word boundaries survive folding, so word counts taken from
// the searched string index safely into the transcript's words.
func contextWindow(transcript, search string, matchIdx, matchLen, window int) string {
	if window <= 0 {
		window = models.DefaultTriggerContextWindow
	}

	beforeCount := len(strings.Fields(search[:matchIdx]))
	matchCount := len(strings.Fields(search[matchIdx : matchIdx+matchLen]))

	words := strings.Fields(transcript)

	afterStart := beforeCount + matchCount
	if afterStart > len(words) {
		afterStart = len(words)
	}

	before := words[:beforeCount]
	after := words[afterStart:]

	if len(before) > window {
		before = before[len(before)-window:]
	}

	if len(after) > window {
		after = after[:window]
	}

	return strings.TrimSpace(strings.Join(append(before, after...), " "))
}
