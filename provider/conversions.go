package provider

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"pricepilot/model"
)

// DefaultSystemPrompt frames every model-backed conversation.
const DefaultSystemPrompt = "You are PricePilot, a pricing-optimization assistant for hospitality businesses. " +
	"Give concrete, data-driven pricing recommendations and say when the available data is not enough to be sure."

// Turn is one entry of the conversation sent to a model.
type Turn struct {
	Role    model.Role
	Content string
}

// BuildSystemPrompt appends the request context, when present, to the base prompt.
func BuildSystemPrompt(base string, rc model.RequestContext) string {
	if base == "" {
		base = DefaultSystemPrompt
	}
	if rc.IsEmpty() {
		return base
	}

	data, err := json.Marshal(rc)
	if err != nil {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nBusiness context (JSON):\n")
	b.Write(data)
	return b.String()
}

// BuildConversation returns the prior turns followed by the question.
func BuildConversation(req model.ChatRequest) []Turn {
	turns := make([]Turn, 0, len(req.History)+1)
	for _, msg := range req.History {
		if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
			continue
		}
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}
	return append(turns, Turn{Role: model.RoleUser, Content: req.Text})
}

// ConvertToOpenAIMessages converts a system prompt and turns to OpenAI format.
func ConvertToOpenAIMessages(system string, turns []Turn) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}

	for _, turn := range turns {
		switch turn.Role {
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(turn.Content))
		default:
			result = append(result, openai.UserMessage(turn.Content))
		}
	}

	return result
}

// ConvertToAnthropicMessages converts turns to Anthropic format. The system
// prompt travels separately in MessageNewParams.System.
func ConvertToAnthropicMessages(turns []Turn) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for _, turn := range turns {
		switch turn.Role {
		case model.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}

	return result
}

// ConvertToOllamaMessages converts a system prompt and turns to Ollama format.
func ConvertToOllamaMessages(system string, turns []Turn) []api.Message {
	result := make([]api.Message, 0, len(turns)+1)
	if system != "" {
		result = append(result, api.Message{Role: "system", Content: system})
	}

	for _, turn := range turns {
		result = append(result, api.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	return result
}
