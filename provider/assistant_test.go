package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pricepilot/model"
	"pricepilot/provider/testutil"
)

func sseServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *AssistantProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	p, err := NewAssistantProvider(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewAssistantProvider() error = %v", err)
	}
	return p
}

func writeEvent(w io.Writer, eventType, content string) {
	data, _ := json.Marshal(StreamEvent{Type: eventType, Content: content})
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func TestAssistantProviderStream(t *testing.T) {
	var gotBody map[string]json.RawMessage

	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != assistantMessagesPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		writeEvent(w, EventToken, "Based ")
		writeEvent(w, EventToken, "on ")
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: {not json}\n\n")
		writeEvent(w, EventToken, "your data...")
		writeEvent(w, EventDone, "Based on your data, consider raising weekend rates.")
	})

	var tokens []string
	final, err := p.Stream(context.Background(), model.ChatRequest{
		Text: "What are my top pricing recommendations?",
	}, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if want := []string{"Based ", "on ", "your data..."}; strings.Join(tokens, "|") != strings.Join(want, "|") {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}
	if final != "Based on your data, consider raising weekend rates." {
		t.Errorf("final = %q", final)
	}

	if string(gotBody["history"]) != "[]" {
		t.Errorf("history = %s, want []", gotBody["history"])
	}
	if string(gotBody["context"]) != "{}" {
		t.Errorf("context = %s, want {}", gotBody["context"])
	}
	if string(gotBody["text"]) != `"What are my top pricing recommendations?"` {
		t.Errorf("text = %s", gotBody["text"])
	}
}

func TestAssistantProviderSendsHistoryAndContext(t *testing.T) {
	var got model.ChatRequest

	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeEvent(w, EventDone, "ok")
	})

	req := model.ChatRequest{
		Text:    "And this weekend?",
		History: testutil.TestHistory(),
		Context: model.BuildContext(testutil.TestProfile(), testutil.TestDatasets()),
	}
	if _, err := p.Stream(context.Background(), req, nil); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if len(got.History) != 2 || got.History[0].ID != req.History[0].ID {
		t.Errorf("history not forwarded in order: %+v", got.History)
	}
	if got.Context.CurrentData == nil || got.Context.CurrentData.TotalBookings != 1500 {
		t.Errorf("context = %+v", got.Context)
	}
}

func TestAssistantProviderErrorEvent(t *testing.T) {
	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEvent(w, EventToken, "Based ")
		writeEvent(w, EventError, "rate limited")
	})

	var tokens int
	_, err := p.Stream(context.Background(), model.ChatRequest{Text: "hi"}, func(string) error {
		tokens++
		return nil
	})

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if err.Error() != "rate limited" {
		t.Errorf("error text = %q, want %q", err.Error(), "rate limited")
	}
	if tokens != 1 {
		t.Errorf("tokens = %d, want 1", tokens)
	}
}

func TestAssistantProviderHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "json error body",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"rate limited","type":"rate_limit"}}`,
			wantMsg: "rate limited",
		},
		{
			name:    "plain body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "assistant service error [502]: upstream down",
		},
		{
			name:    "empty body",
			status:  http.StatusInternalServerError,
			wantMsg: "assistant service error [500]: Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := p.Stream(context.Background(), model.ChatRequest{Text: "hi"}, nil)

			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("error = %v, want *ServiceError", err)
			}
			if svcErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", svcErr.StatusCode, tt.status)
			}
			if svcErr.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", svcErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestAssistantProviderIncompleteStream(t *testing.T) {
	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEvent(w, EventToken, "partial")
	})

	_, err := p.Stream(context.Background(), model.ChatRequest{Text: "hi"}, nil)
	if !errors.Is(err, ErrStreamIncomplete) {
		t.Errorf("error = %v, want ErrStreamIncomplete", err)
	}
}

func TestAssistantProviderTokenCallbackError(t *testing.T) {
	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEvent(w, EventToken, "a")
		writeEvent(w, EventDone, "a")
	})

	stop := errors.New("stop")
	_, err := p.Stream(context.Background(), model.ChatRequest{Text: "hi"}, func(string) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("error = %v, want callback error", err)
	}
}

func TestAssistantProviderPing(t *testing.T) {
	p := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != assistantHealthPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := p.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
