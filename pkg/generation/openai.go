// Package generation implements the text-generation effector against
// OpenAI-compatible chat completion APIs, plus a mock for tests.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxflow/voxflow/pkg/protocol"
)

const defaultRequestTimeout = 120 * time.Second

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	providerID   string
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
}

// Config configures one OpenAI-compatible provider.
type Config struct {
	ProviderID   string
	BaseURL      string
	APIKey       string
	DefaultModel string
}

func NewOpenAIClient(config Config) *OpenAIClient {
	return &OpenAIClient{
		providerID:   config.ProviderID,
		baseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:       config.APIKey,
		defaultModel: config.DefaultModel,
		httpClient:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (c *OpenAIClient) ProviderID() string {
	return c.providerID
}

func (c *OpenAIClient) DefaultModel() string {
	return c.defaultModel
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends one chat completion request and returns the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, req protocol.GenerationRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	var parsed chatResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parsed.Error != nil {
			return "", fmt.Errorf("provider %s returned %d: %s", c.providerID, resp.StatusCode, parsed.Error.Message)
		}

		return "", fmt.Errorf("provider %s returned status %d", c.providerID, resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider %s returned no choices", c.providerID)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
