package testutil

import (
	"context"
	"errors"
	"sync"

	"pricepilot/model"
)

// MockProvider implements model.Provider for testing. By default it streams
// Tokens, then returns Final (or the concatenated tokens when Final is
// empty), or Err after the tokens when Err is set.
type MockProvider struct {
	Tokens []string
	Final  string
	Err    error
	// PanicWith makes Stream panic after the tokens are delivered.
	PanicWith any

	// StreamFunc, when set, replaces the scripted behaviour entirely.
	StreamFunc func(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error)
	PingFunc   func(ctx context.Context) error

	mu       sync.Mutex
	requests []model.ChatRequest
}

// NewMockProvider creates a mock that streams tokens then completes with final.
func NewMockProvider(final string, tokens ...string) *MockProvider {
	return &MockProvider{Tokens: tokens, Final: final}
}

// NewFailingMockProvider creates a mock that streams tokens then fails with msg.
func NewFailingMockProvider(msg string, tokens ...string) *MockProvider {
	return &MockProvider{Tokens: tokens, Err: errors.New(msg)}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Stream(ctx context.Context, req model.ChatRequest, onToken model.TokenCallback) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req, onToken)
	}

	for _, token := range m.Tokens {
		if err := onToken(token); err != nil {
			return "", err
		}
	}

	if m.PanicWith != nil {
		panic(m.PanicWith)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Final != "" {
		return m.Final, nil
	}

	var full string
	for _, token := range m.Tokens {
		full += token
	}
	return full, nil
}

func (m *MockProvider) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []model.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// MockContextSource implements model.ContextSource with fixed data.
type MockContextSource struct {
	ProfileValue *model.BusinessProfile
	DatasetList  []model.Dataset
	ProfileErr   error
	DatasetsErr  error
}

func (s *MockContextSource) Profile(ctx context.Context) (*model.BusinessProfile, error) {
	return s.ProfileValue, s.ProfileErr
}

func (s *MockContextSource) Datasets(ctx context.Context) ([]model.Dataset, error) {
	return s.DatasetList, s.DatasetsErr
}
