package model

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"pricepilot/config"
)

// Status is the externally observable state of a chat session.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaitingFirstToken
	StatusStreaming
	// StatusError is only reported by DisplayStatus: the session is idle but
	// still holds the error from its last submission.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAwaitingFirstToken:
		return "awaiting-first-token"
	case StatusStreaming:
		return "streaming"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const contextSnapshotTimeout = 2 * time.Second

// SessionConfig configures a new Session. Zero values pick defaults.
type SessionConfig struct {
	Greeting       string
	RequestTimeout time.Duration
	Clock          func() time.Time
}

// Session owns one conversation: its transcript, the in-flight response
// buffer and the single request allowed to be outstanding. All methods must
// be called from the bubbletea Update goroutine.
type Session struct {
	provider Provider
	source   ContextSource
	timeout  time.Duration
	now      func() time.Time

	transcript *Transcript

	status    Status
	buffer    strings.Builder
	pendingID string
	lastErr   string
	seq       uint64
	events    chan tea.Msg
}

// NewSession creates an idle session. provider may be nil; submissions then
// fail through the normal error path.
func NewSession(provider Provider, source ContextSource, cfg SessionConfig) *Session {
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Session{
		provider:   provider,
		source:     source,
		timeout:    cfg.RequestTimeout,
		now:        cfg.Clock,
		transcript: NewTranscript(NewMessage(RoleAssistant, cfg.Greeting, cfg.Clock())),
		status:     StatusIdle,
	}
}

// Submit starts a new exchange. Blank input or a busy session makes it a
// no-op that returns nil. Otherwise the user message is appended before the
// returned command issues the request. Submit never reads the context source;
// the snapshot is taken by the stream goroutine.
func (s *Session) Submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || s.status != StatusIdle {
		return nil
	}

	// Prior turns only; the question itself travels as Text.
	history := s.transcript.History()
	s.transcript.Append(NewMessage(RoleUser, text, s.now()))

	s.lastErr = ""
	s.buffer.Reset()
	s.pendingID = uuid.New().String()
	s.seq++
	s.status = StatusAwaitingFirstToken

	req := ChatRequest{
		Text:    text,
		History: history,
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] submit seq=%d history=%d", s.seq, len(history))
	}

	s.events = make(chan tea.Msg, streamEventBuffer)
	return startStream(s.provider, s.source, req, s.seq, s.timeout, s.events)
}

// Update routes stream messages to their transition handlers and returns the
// command that waits for the next stream event, if any.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case StreamTokenMsg:
		if s.HandleToken(msg) {
			return waitForStreamEvent(s.events)
		}
	case StreamDoneMsg:
		s.HandleDone(msg)
	case StreamErrorMsg:
		s.HandleError(msg)
	}
	return nil
}

func (s *Session) inFlight(seq uint64) bool {
	return seq == s.seq && (s.status == StatusAwaitingFirstToken || s.status == StatusStreaming)
}

// HandleToken appends a fragment to the buffer. It reports false for
// messages that do not belong to the in-flight submission.
func (s *Session) HandleToken(msg StreamTokenMsg) bool {
	if !s.inFlight(msg.Seq) {
		return false
	}
	s.buffer.WriteString(msg.Token)
	s.status = StatusStreaming
	return true
}

// HandleDone commits the final response under the reserved id.
func (s *Session) HandleDone(msg StreamDoneMsg) bool {
	if !s.inFlight(msg.Seq) {
		return false
	}

	ts := s.now()
	if user := s.transcript.Last(); ts.Before(user.Timestamp) {
		ts = user.Timestamp
	}

	s.transcript.Append(Message{
		ID:        s.pendingID,
		Role:      RoleAssistant,
		Content:   msg.FullResponse,
		Timestamp: ts,
	})
	s.reset()
	return true
}

// HandleError drops the partial response and retains the error text.
func (s *Session) HandleError(msg StreamErrorMsg) bool {
	if !s.inFlight(msg.Seq) {
		return false
	}
	s.lastErr = ErrorText(msg.Err)
	s.reset()
	return true
}

func (s *Session) reset() {
	s.buffer.Reset()
	s.pendingID = ""
	s.status = StatusIdle
	s.events = nil
}

// DismissError clears the retained error message.
func (s *Session) DismissError() {
	s.lastErr = ""
}

// Status returns idle, awaiting-first-token or streaming.
func (s *Session) Status() Status {
	return s.status
}

// DisplayStatus is Status with StatusError reported while an error is retained.
func (s *Session) DisplayStatus() Status {
	if s.status == StatusIdle && s.lastErr != "" {
		return StatusError
	}
	return s.status
}

// Buffer returns the full text accumulated from the in-flight response.
func (s *Session) Buffer() string {
	return s.buffer.String()
}

func (s *Session) PendingMessageID() string {
	return s.pendingID
}

func (s *Session) LastError() string {
	return s.lastErr
}

func (s *Session) Transcript() *Transcript {
	return s.transcript
}

func (s *Session) ProviderName() string {
	if s.provider == nil {
		return "offline"
	}
	return s.provider.Name()
}
