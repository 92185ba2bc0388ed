package model

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"pricepilot/config"
)

// FallbackErrorText is shown when a failure carries no usable message.
const FallbackErrorText = "Something went wrong. Please try again."

const streamEventBuffer = 64

var errNoProvider = errors.New("no assistant provider is configured")

// ErrorText returns the user-visible text for err.
func ErrorText(err error) string {
	if err == nil {
		return FallbackErrorText
	}
	if text := strings.TrimSpace(err.Error()); text != "" {
		return text
	}
	return FallbackErrorText
}

// startStream launches the context snapshot and provider call and returns a
// command yielding the first event. Exactly one StreamDoneMsg or
// StreamErrorMsg is sent per call, after every StreamTokenMsg, and then
// events is closed.
func startStream(p Provider, src ContextSource, req ChatRequest, seq uint64, timeout time.Duration, events chan tea.Msg) tea.Cmd {
	go runStream(p, src, req, seq, timeout, events)
	return waitForStreamEvent(events)
}

// waitForStreamEvent blocks on the next stream event.
func waitForStreamEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func runStream(p Provider, src ContextSource, req ChatRequest, seq uint64, timeout time.Duration, events chan<- tea.Msg) {
	defer close(events)

	startTime := time.Now()

	// Read off the Update goroutine, once per submission.
	snapCtx, cancel := context.WithTimeout(context.Background(), contextSnapshotTimeout)
	req.Context = SnapshotContext(snapCtx, src)
	cancel()
	tokens := 0

	final, err := callProvider(p, req, timeout, func(token string) error {
		tokens++
		events <- StreamTokenMsg{Seq: seq, Token: token}
		return nil
	})

	if config.DebugLog != nil {
		fields := logrus.Fields{
			"seq":           seq,
			"tokens":        tokens,
			"context_empty": req.Context.IsEmpty(),
			"elapsed":       time.Since(startTime).String(),
		}
		if p != nil {
			fields["provider"] = p.Name()
		}
		if err != nil {
			config.DebugLog.WithFields(fields).WithError(err).Warn("stream failed")
		} else {
			config.DebugLog.WithFields(fields).WithField("chars", len(final)).Info("stream complete")
		}
	}

	if err != nil {
		events <- StreamErrorMsg{Seq: seq, Err: err}
		return
	}
	events <- StreamDoneMsg{Seq: seq, FullResponse: final}
}

// callProvider converts a missing provider or a panic during the call into
// an ordinary error so the session always reaches a terminal event.
func callProvider(p Provider, req ChatRequest, timeout time.Duration, onToken TokenCallback) (final string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Session] recovered panic in provider: %v", r)
			}
			final = ""
			err = errors.New(FallbackErrorText)
		}
	}()

	if p == nil {
		return "", errNoProvider
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return p.Stream(ctx, req, onToken)
}
