package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/protocol"
)

// IntentExtractor classifies a trigger-matched transcript fragment into
// intents, each resolved to the workflow it should dispatch.
type IntentExtractor struct {
	generators GeneratorResolver
	logger     *slog.Logger
}

func NewIntentExtractor(generators GeneratorResolver, logger *slog.Logger) *IntentExtractor {
	return &IntentExtractor{
		generators: generators,
		logger:     logger.With("module", "intent_extractor"),
	}
}

// Extract classifies matchedContext with the configured strategy, discards
// intents below the confidence threshold and resolves each survivor's
// target workflow against the given workflow set.
func (ie *IntentExtractor) Extract(
	ctx context.Context,
	config *models.IntentExtractConfig,
	matchedContext string,
	workflows []*models.Workflow,
) ([]models.ExtractedIntent, error) {
	var (
		intents []models.ExtractedIntent
		err     error
	)

	switch config.Strategy {
	case models.IntentStrategyKeywords:
		intents = ie.keywordIntents(config, matchedContext)
	case models.IntentStrategyLLM:
		intents, err = ie.llmIntents(ctx, config, matchedContext)
		if err != nil {
			return nil, err
		}
	case models.IntentStrategyHybrid:
		// LLM first; keyword matches fill in anything the model missed or
		// cover for a provider failure.
		intents, err = ie.llmIntents(ctx, config, matchedContext)
		if err != nil {
			ie.logger.WarnContext(ctx, "LLM intent extraction failed, falling back to keywords", "error", err)

			intents = nil
		}

		intents = mergeIntents(intents, ie.keywordIntents(config, matchedContext))
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown intent strategy %q", config.Strategy)}
	}

	accepted := make([]models.ExtractedIntent, 0, len(intents))

	for _, intent := range intents {
		if intent.Confidence < config.ConfidenceThreshold {
			ie.logger.DebugContext(ctx, "Discarding low-confidence intent",
				"action", intent.Action, "confidence", intent.Confidence)

			continue
		}

		intent.TargetWorkflowID = resolveTarget(intent.Action, config.Intents, workflows)
		accepted = append(accepted, intent)
	}

	return accepted, nil
}

// keywordIntents matches the fragment case-insensitively against each
// enabled intent's name and synonyms.
func (ie *IntentExtractor) keywordIntents(config *models.IntentExtractConfig, matchedContext string) []models.ExtractedIntent {
	fragment := strings.ToLower(matchedContext)
	intents := make([]models.ExtractedIntent, 0, len(config.Intents))

	for _, def := range config.Intents {
		if !def.Enabled {
			continue
		}

		for _, keyword := range append([]string{def.Name}, def.Synonyms...) {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" || !strings.Contains(fragment, keyword) {
				continue
			}

			intents = append(intents, models.ExtractedIntent{
				Action:     def.Name,
				Confidence: 1.0,
			})

			break
		}
	}

	return intents
}

func (ie *IntentExtractor) llmIntents(
	ctx context.Context,
	config *models.IntentExtractConfig,
	matchedContext string,
) ([]models.ExtractedIntent, error) {
	generator, err := ie.generators.Generator(config.Provider)
	if err != nil {
		return nil, err
	}

	actions := make([]string, 0, len(config.Intents))
	for _, def := range config.Intents {
		if def.Enabled {
			actions = append(actions, def.Name)
		}
	}

	prompt := strings.ReplaceAll(config.Prompt, "{{ACTIONS}}", strings.Join(actions, ", "))
	prompt = strings.ReplaceAll(prompt, "{{CONTEXT}}", matchedContext)

	model := config.Model
	if model == "" {
		model = generator.DefaultModel()
	}

	response, err := generator.Generate(ctx, protocol.GenerationRequest{
		Prompt:    prompt,
		Model:     model,
		MaxTokens: 256,
	})
	if err != nil {
		return nil, fmt.Errorf("intent extraction call failed: %w", err)
	}

	return parseIntentLines(response, config.Intents), nil
}

// parseIntentLines parses "ACTION | PARAM | CONFIDENCE" lines, dropping
// anything that does not name a defined, enabled intent.
func parseIntentLines(response string, defs []models.IntentDefinition) []models.ExtractedIntent {
	intents := make([]models.ExtractedIntent, 0, 4)

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		action := canonicalAction(strings.TrimSpace(parts[0]), defs)

		if action == "" {
			continue
		}

		intent := models.ExtractedIntent{Action: action, Confidence: 1.0}

		if len(parts) > 1 {
			intent.Parameter = strings.TrimSpace(parts[1])
			if intent.Parameter == "-" {
				intent.Parameter = ""
			}
		}

		if len(parts) > 2 {
			confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err == nil {
				intent.Confidence = confidence
			}
		}

		intents = append(intents, intent)
	}

	return intents
}

func canonicalAction(action string, defs []models.IntentDefinition) string {
	for _, def := range defs {
		if def.Enabled && strings.EqualFold(def.Name, action) {
			return def.Name
		}
	}

	return ""
}

// mergeIntents combines LLM and keyword results, keeping the first
// occurrence of each action.
func mergeIntents(primary, secondary []models.ExtractedIntent) []models.ExtractedIntent {
	seen := make(map[string]bool, len(primary))
	merged := make([]models.ExtractedIntent, 0, len(primary)+len(secondary))

	for _, intent := range append(primary, secondary...) {
		key := strings.ToLower(intent.Action)
		if seen[key] {
			continue
		}

		seen[key] = true
		merged = append(merged, intent)
	}

	return merged
}

// resolveTarget picks the workflow an intent dispatches: the definition's
// explicit target first, then the reserved do-nothing sentinel, then a
// name/synonym match against the workflow set. An empty result means
// "detected, nothing to run".
func resolveTarget(action string, defs []models.IntentDefinition, workflows []*models.Workflow) string {
	var def *models.IntentDefinition

	for i := range defs {
		if strings.EqualFold(defs[i].Name, action) {
			def = &defs[i]

			break
		}
	}

	if def == nil {
		return ""
	}

	if def.TargetWorkflowID == models.DoNothingTargetID {
		return models.DoNothingTargetID
	}

	if def.TargetWorkflowID != "" {
		return def.TargetWorkflowID
	}

	names := append([]string{def.Name}, def.Synonyms...)
	for _, workflow := range workflows {
		for _, name := range names {
			if strings.EqualFold(workflow.Name, name) {
				return workflow.ID
			}
		}
	}

	return ""
}
