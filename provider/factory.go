package provider

import (
	"fmt"

	"pricepilot/model"
)

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (invalid URL, missing API key).
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)

	// A failed constructor yields a nil interface, never a typed nil.
	switch cfg.Type {
	case ProviderTypeAssistant:
		var ap *AssistantProvider
		ap, err = NewAssistantProvider(cfg.BaseURL, cfg.APIKey)
		p = ap
	case ProviderTypeOllama:
		var op *OllamaProvider
		op, err = NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.SystemPrompt)
		p = op
	case ProviderTypeOpenRouter:
		var orp *OpenRouterProvider
		orp, err = NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.SystemPrompt)
		p = orp
	case ProviderTypeOpenAI:
		var oai *OpenAIProvider
		oai, err = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.SystemPrompt)
		p = oai
	case ProviderTypeAnthropic:
		var anp *AnthropicProvider
		anp, err = NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.SystemPrompt)
		p = anp
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}

	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
// Unknown IDs are passed through as-is and rejected by NewProvider.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "", "assistant", "pricepilot":
		return ProviderTypeAssistant
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic", "claude":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
