package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pricepilot/model"
)

const (
	assistantMessagesPath = "/v1/assistant/messages"
	assistantHealthPath   = "/healthz"
)

// AssistantProvider talks to the PricePilot assistant service. The service
// answers a POST with a server-sent event stream of token events terminated by
// a done event (final text) or an error event.
type AssistantProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// StreamEvent is one server-sent event from the assistant service.
type StreamEvent struct {
	Type    string `json:"type"` // token | done | error
	Content string `json:"content"`
}

const (
	EventToken = "token"
	EventDone  = "done"
	EventError = "error"
)

// ServiceError is a failure reported by the assistant service. Its text is
// shown to the user verbatim.
type ServiceError struct {
	StatusCode int // 0 for error events inside a 200 stream
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type serviceErrorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewAssistantProvider creates a client for the assistant service. The HTTP
// client has no timeout of its own; the session bounds each request through
// its context.
func NewAssistantProvider(baseURL, apiKey string) (*AssistantProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid assistant URL: %s", baseURL)
	}

	return &AssistantProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}, nil
}

func (p *AssistantProvider) Name() string {
	return "assistant"
}

// Stream implements model.Provider.
func (p *AssistantProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	if req.History == nil {
		req.History = []model.Message{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+assistantMessagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeServiceError(resp)
	}

	return readEventStream(ctx, resp.Body, onToken)
}

// readEventStream consumes SSE data lines until a terminal event.
func readEventStream(ctx context.Context, r io.Reader, onToken model.TokenCallback) (string, error) {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				return "", ErrStreamIncomplete
			}
			return "", fmt.Errorf("failed to read stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// Skip malformed events
			continue
		}

		switch event.Type {
		case EventToken:
			if onToken != nil {
				if err := onToken(event.Content); err != nil {
					return "", err
				}
			}
		case EventDone:
			return event.Content, nil
		case EventError:
			return "", &ServiceError{Message: event.Content}
		}
	}
}

func decodeServiceError(resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errBody serviceErrorBody
	if err := json.Unmarshal(respBody, &errBody); err == nil && errBody.Error != nil && errBody.Error.Message != "" {
		return &ServiceError{StatusCode: resp.StatusCode, Message: errBody.Error.Message}
	}

	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &ServiceError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("assistant service error [%d]: %s", resp.StatusCode, msg),
	}
}

// Ping implements model.Provider.
func (p *AssistantProvider) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+assistantHealthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("assistant service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeServiceError(resp)
	}
	return nil
}

func (p *AssistantProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}
