package model

import "context"

// ChatRequest is the payload sent to the assistant service for one question.
// History holds the prior turns only; Text is the question being answered.
type ChatRequest struct {
	Text    string         `json:"text"`
	History []Message      `json:"history"`
	Context RequestContext `json:"context"`
}

// TokenCallback receives each incremental text fragment in order.
type TokenCallback func(token string) error

// Provider abstracts the assistant messaging service.
//
// This interface lives in the model package (not provider) so provider
// implementations can import model without an import cycle.
type Provider interface {
	// Stream sends req and invokes onToken for every fragment. It returns the
	// authoritative final text, which may differ from the concatenated tokens,
	// or an error. Returning is the terminal event for the request.
	Stream(ctx context.Context, req ChatRequest, onToken TokenCallback) (string, error)

	// Name identifies the provider for logs and the status bar.
	Name() string

	// Ping checks if the service is reachable.
	Ping(ctx context.Context) error
}
