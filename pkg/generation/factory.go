package generation

import (
	"errors"
	"fmt"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// Factory builds OpenAI-compatible generators from registry configuration.
type Factory struct {
	providerID string
}

// NewFactory creates a factory for the given provider id ("openai",
// "ollama", "lmstudio" — anything speaking the chat completions protocol).
func NewFactory(providerID string) *Factory {
	return &Factory{providerID: providerID}
}

func (f *Factory) ID() string {
	return f.providerID
}

// Create expects base_url, default_model and optionally api_key.
func (f *Factory) Create(config map[string]any) (protocol.Generator, error) {
	baseURL, _ := config["base_url"].(string)
	if baseURL == "" {
		return nil, errors.New("base_url is required")
	}

	defaultModel, _ := config["default_model"].(string)
	if defaultModel == "" {
		return nil, errors.New("default_model is required")
	}

	apiKey, _ := config["api_key"].(string)

	return NewOpenAIClient(Config{
		ProviderID:   f.providerID,
		BaseURL:      baseURL,
		APIKey:       apiKey,
		DefaultModel: defaultModel,
	}), nil
}

var _ protocol.GeneratorFactory = (*Factory)(nil)

// Verify the client satisfies the effector contract.
var _ protocol.Generator = (*OpenAIClient)(nil)

// ErrUnconfigured is returned by Validate when a provider config is missing
// required fields.
var ErrUnconfigured = errors.New("generation provider not configured")

// Validate checks a provider config without instantiating a client.
func Validate(config map[string]any) error {
	for _, key := range []string{"base_url", "default_model"} {
		value, _ := config[key].(string)
		if value == "" {
			return fmt.Errorf("%w: missing %s", ErrUnconfigured, key)
		}
	}

	return nil
}
