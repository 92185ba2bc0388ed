package provider

import (
	"context"
	"fmt"
	"strings"

	"pricepilot/model"
	"pricepilot/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client       *ollama.Client
	systemPrompt string
}

// NewOllamaProvider creates a new Ollama provider instance. Empty baseURL and
// model fall back to the ollama package defaults.
func NewOllamaProvider(baseURL, model, systemPrompt string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client:       client,
		systemPrompt: systemPrompt,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama/" + p.client.Model()
}

// Stream implements model.Provider. Ollama sends no separate final message,
// so the final text is the concatenated chunks.
func (p *OllamaProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	messages := ConvertToOllamaMessages(BuildSystemPrompt(p.systemPrompt, req.Context), BuildConversation(req))

	var response strings.Builder
	err := p.client.Chat(ctx, messages, func(chunk string) error {
		response.WriteString(chunk)
		if onToken != nil {
			return onToken(chunk)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama streaming error: %w", err)
	}

	return response.String(), nil
}

// Ping implements model.Provider.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
