package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxflow/voxflow/pkg/models"
)

func TestMatchTrigger(t *testing.T) {
	tests := []struct {
		name            string
		config          models.TriggerConfig
		transcript      string
		expectMatched   bool
		expectedPhrase  string
		expectedContext string
	}{
		{
			name:          "anywhere match",
			config:        models.TriggerConfig{Phrases: []string{"note to self"}},
			transcript:    "okay so note to self buy milk tomorrow",
			expectMatched: true, expectedPhrase: "note to self",
			expectedContext: "okay so buy milk tomorrow",
		},
		{
			name: "case insensitive by default",
			config: models.TriggerConfig{
				Phrases: []string{"Note To Self"},
			},
			transcript:    "NOTE TO SELF call mom",
			expectMatched: true, expectedPhrase: "Note To Self",
			expectedContext: "call mom",
		},
		{
			name: "case sensitive miss",
			config: models.TriggerConfig{
				Phrases:       []string{"Note To Self"},
				CaseSensitive: true,
			},
			transcript:    "note to self call mom",
			expectMatched: false,
		},
		{
			name: "start location requires prefix",
			config: models.TriggerConfig{
				Phrases:  []string{"reminder"},
				Location: models.TriggerLocationStart,
			},
			transcript:    "reminder pick up keys",
			expectMatched: true, expectedPhrase: "reminder",
			expectedContext: "pick up keys",
		},
		{
			name: "start location rejects mid-transcript phrase",
			config: models.TriggerConfig{
				Phrases:  []string{"reminder"},
				Location: models.TriggerLocationStart,
			},
			transcript:    "set a reminder please",
			expectMatched: false,
		},
		{
			name: "end location requires suffix",
			config: models.TriggerConfig{
				Phrases:  []string{"send it"},
				Location: models.TriggerLocationEnd,
			},
			transcript:    "draft the email and send it",
			expectMatched: true, expectedPhrase: "send it",
			expectedContext: "draft the email and",
		},
		{
			name: "end location rejects mid-transcript phrase",
			config: models.TriggerConfig{
				Phrases:  []string{"send it"},
				Location: models.TriggerLocationEnd,
			},
			transcript:    "send it to everyone later",
			expectMatched: false,
		},
		{
			name: "second phrase matches",
			config: models.TriggerConfig{
				Phrases: []string{"memo", "action item"},
			},
			transcript:    "one action item follow up with legal",
			expectMatched: true, expectedPhrase: "action item",
			expectedContext: "one follow up with legal",
		},
		{
			name:          "no phrases configured",
			config:        models.TriggerConfig{},
			transcript:    "anything at all",
			expectMatched: false,
		},
		{
			name:          "empty transcript",
			config:        models.TriggerConfig{Phrases: []string{"note"}},
			transcript:    "   ",
			expectMatched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := MatchTrigger(&tt.config, tt.transcript)

			assert.Equal(t, tt.expectMatched, match.Matched)
			if tt.expectMatched {
				assert.Equal(t, tt.expectedPhrase, match.Phrase)
				assert.Equal(t, tt.expectedContext, match.Context)
			}
		})
	}
}

func TestMatchTriggerContextWindow(t *testing.T) {
	config := models.TriggerConfig{
		Phrases:       []string{"note to self"},
		ContextWindow: 2,
	}

	match := MatchTrigger(&config, "a b c d note to self w x y z")

	assert.True(t, match.Matched)
	assert.Equal(t, "c d w x", match.Context)
}

func TestMatchTriggerContextWindowNonASCII(t *testing.T) {
	// Case folding changes the byte length of İ, so the window must not be
	// carved out of the transcript with offsets from the folded string.
	config := models.TriggerConfig{
		Phrases:       []string{"note to self"},
		ContextWindow: 2,
	}

	match := MatchTrigger(&config, "İstanbul trip planning note to self book the flights")

	assert.True(t, match.Matched)
	assert.Equal(t, "trip planning book the", match.Context)
}
