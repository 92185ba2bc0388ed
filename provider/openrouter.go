package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pricepilot/model"
)

// OpenRouterProvider implements model.Provider against OpenRouter, which is
// OpenAI-compatible, using the OpenAI Go SDK.
type OpenRouterProvider struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenRouterProvider creates a new OpenRouter provider instance.
//
// Parameters:
//   - baseURL: OpenRouter API base URL (default: "https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key (required)
//   - model: model to use (default: "meta-llama/llama-3.2-90b-instruct")
func NewOpenRouterProvider(baseURL, apiKey, model, systemPrompt string) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = "meta-llama/llama-3.2-90b-instruct"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		// OpenRouter attribution headers
		option.WithHeader("HTTP-Referer", "https://github.com/pricepilot/pricepilot"),
		option.WithHeader("X-Title", "PricePilot"),
	)

	return &OpenRouterProvider{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter/" + stripProviderPrefix(p.model)
}

// Stream implements model.Provider.
func (p *OpenRouterProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	final, err := streamOpenAICompatible(ctx, p.client, p.model, p.systemPrompt, req, onToken)
	if err != nil {
		return "", fmt.Errorf("OpenRouter streaming error: %w", err)
	}
	return final, nil
}

// Ping implements model.Provider by listing models.
func (p *OpenRouterProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenRouter ping failed: %w", err)
	}
	return nil
}

// stripProviderPrefix removes vendor prefixes from OpenRouter model names.
// "meta-llama/llama-3.2-90b-instruct" → "llama-3.2-90b-instruct"
func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
