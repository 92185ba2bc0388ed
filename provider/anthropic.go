package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pricepilot/model"
)

// AnthropicProvider implements model.Provider using the official Anthropic Go SDK.
type AnthropicProvider struct {
	client       *anthropic.Client
	model        anthropic.Model
	systemPrompt string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: model to use (default: Claude Sonnet 4.5)
func NewAnthropicProvider(baseURL, apiKey, model, systemPrompt string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic: %w", ErrMissingAPIKey)
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:       &client,
		model:        anthropicModel,
		systemPrompt: systemPrompt,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic/" + string(p.model)
}

// Stream implements model.Provider. The final text is the accumulated
// message's text blocks.
func (p *AnthropicProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  ConvertToAnthropicMessages(BuildConversation(req)),
		MaxTokens: 4096, // required by the API
		System: []anthropic.TextBlockParam{
			{Text: BuildSystemPrompt(p.systemPrompt, req.Context)},
		},
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	msg := anthropic.Message{}

	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return "", fmt.Errorf("error accumulating message: %w", err)
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if onToken != nil && deltaVariant.Text != "" {
					if err := onToken(deltaVariant.Text); err != nil {
						return "", err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("Anthropic streaming error: %w", err)
	}

	return extractText(msg.Content), nil
}

// Ping implements model.Provider with a one-token request; Anthropic has no
// health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

func extractText(content []anthropic.ContentBlockUnion) string {
	var b strings.Builder
	for _, block := range content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
