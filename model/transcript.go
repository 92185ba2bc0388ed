package model

import (
	"github.com/sahilm/fuzzy"
)

// DefaultGreeting is shown at the top of every new conversation.
const DefaultGreeting = "Hi! I'm your pricing assistant. Ask me about rates, demand, or your latest booking data."

// Transcript is the ordered record of a conversation. The first entry is a
// synthetic assistant greeting that is displayed but never sent as history.
type Transcript struct {
	entries []Message
}

// NewTranscript creates a transcript seeded with the greeting entry.
func NewTranscript(greeting Message) *Transcript {
	return &Transcript{entries: []Message{greeting}}
}

// Append adds a committed message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.entries = append(t.entries, msg)
}

// History returns every committed message after the greeting, in order.
// The returned slice is a copy and is safe to hand to another goroutine.
func (t *Transcript) History() []Message {
	history := make([]Message, len(t.entries)-1)
	copy(history, t.entries[1:])
	return history
}

// Messages returns all entries including the greeting, for display.
func (t *Transcript) Messages() []Message {
	all := make([]Message, len(t.entries))
	copy(all, t.entries)
	return all
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Greeting returns the synthetic first entry.
func (t *Transcript) Greeting() Message {
	return t.entries[0]
}

// Last returns the most recently appended entry (the greeting if nothing else).
func (t *Transcript) Last() Message {
	return t.entries[len(t.entries)-1]
}

// LastAssistant returns the latest committed assistant reply, skipping the greeting.
func (t *Transcript) LastAssistant() (Message, bool) {
	for i := len(t.entries) - 1; i >= 1; i-- {
		if t.entries[i].Role == RoleAssistant {
			return t.entries[i], true
		}
	}
	return Message{}, false
}

// transcriptSource adapts history entries to fuzzy.Source.
type transcriptSource []Message

func (s transcriptSource) String(i int) string { return s[i].Content }
func (s transcriptSource) Len() int            { return len(s) }

// Search fuzzy-matches committed messages against query, best match first.
// The greeting is never part of the results.
func (t *Transcript) Search(query string) []Message {
	if query == "" {
		return nil
	}

	history := transcriptSource(t.History())
	matches := fuzzy.FindFrom(query, history)

	results := make([]Message, 0, len(matches))
	for _, match := range matches {
		results = append(results, history[match.Index])
	}
	return results
}
