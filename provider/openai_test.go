package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pricepilot/model"
	"pricepilot/provider/testutil"
)

func openAIChunk(content, finish string) string {
	chunk := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"delta":         map[string]any{"role": "assistant", "content": content},
			"finish_reason": nil,
		}},
	}
	if finish != "" {
		chunk["choices"].([]map[string]any)[0]["finish_reason"] = finish
	}
	data, _ := json.Marshal(chunk)
	return fmt.Sprintf("data: %s\n\n", data)
}

func TestOpenAIProviderStream(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, openAIChunk("Raise ", ""))
		fmt.Fprint(w, openAIChunk("weekend rates.", ""))
		fmt.Fprint(w, openAIChunk("", "stop"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(server.URL, "sk-test", "", "")
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	req := model.ChatRequest{
		Text:    "Should I raise prices?",
		History: testutil.TestHistory(),
		Context: model.BuildContext(testutil.TestProfile(), nil),
	}

	var tokens []string
	final, err := p.Stream(context.Background(), req, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if strings.Join(tokens, "") != "Raise weekend rates." {
		t.Errorf("tokens = %q", tokens)
	}
	if final != "Raise weekend rates." {
		t.Errorf("final = %q", final)
	}

	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", gotBody.Model)
	}
	// system + two history turns + question
	if len(gotBody.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(gotBody.Messages))
	}
	if gotBody.Messages[0].Role != "system" || !strings.Contains(gotBody.Messages[0].Content, "Harbor View Inn") {
		t.Errorf("system message missing business context: %+v", gotBody.Messages[0])
	}
	if last := gotBody.Messages[3]; last.Role != "user" || last.Content != "Should I raise prices?" {
		t.Errorf("last message = %+v", last)
	}
}
