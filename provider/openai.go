package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pricepilot/model"
)

// OpenAIProvider implements model.Provider using OpenAI's official Go SDK.
type OpenAIProvider struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: model to use (default: "gpt-4o-mini")
//   - systemPrompt: base system prompt (default: DefaultSystemPrompt)
func NewOpenAIProvider(baseURL, apiKey, model, systemPrompt string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model
}

// Stream implements model.Provider.
func (p *OpenAIProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	final, err := streamOpenAICompatible(ctx, p.client, p.model, p.systemPrompt, req, onToken)
	if err != nil {
		return "", fmt.Errorf("OpenAI streaming error: %w", err)
	}
	return final, nil
}

// Ping implements model.Provider by listing models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

// streamOpenAICompatible runs a streaming chat completion against any
// OpenAI-compatible endpoint. The accumulated message is the final text.
func streamOpenAICompatible(ctx context.Context, client openai.Client, modelName, systemPrompt string, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(BuildSystemPrompt(systemPrompt, req.Context), BuildConversation(req)),
		Model:    openai.ChatModel(modelName),
	}

	stream := client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" && onToken != nil {
			if err := onToken(chunk.Choices[0].Delta.Content); err != nil {
				return "", err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return "", err
	}

	if len(acc.Choices) == 0 {
		return "", nil
	}
	return acc.Choices[0].Message.Content, nil
}
