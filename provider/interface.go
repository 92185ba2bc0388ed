// Package provider implements the assistant messaging service behind
// model.Provider.
//
// The chat session only knows the three-way streaming contract: tokens in
// order, then either a final text or an error. Each implementation maps a
// concrete backend onto that contract:
//   - AssistantProvider: the PricePilot assistant service (HTTP + server-sent events)
//   - OpenAIProvider: OpenAI chat completions (openai-go)
//   - OpenRouterProvider: OpenRouter's OpenAI-compatible API (openai-go)
//   - AnthropicProvider: Anthropic messages (anthropic-sdk-go)
//   - OllamaProvider: a local Ollama server
//
// Model-backed providers all send the same conversation, built by
// BuildConversation: a system prompt carrying the request context, the prior
// turns, then the question.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeAssistant,
//	    BaseURL: "http://localhost:8080",
//	    APIKey:  os.Getenv("PRICEPILOT_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	final, err := p.Stream(ctx, req, onToken)
package provider

import "errors"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeAssistant  ProviderType = "assistant"
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type         ProviderType
	BaseURL      string
	Model        string
	APIKey       string // unused for Ollama
	SystemPrompt string // overrides DefaultSystemPrompt for model providers
}

var (
	// ErrMissingAPIKey is returned by constructors of hosted providers.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrStreamIncomplete means the stream ended without a done or error event.
	ErrStreamIncomplete = errors.New("stream ended without completion")
)
