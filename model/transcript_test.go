package model_test

import (
	"testing"
	"time"

	"pricepilot/model"
)

func newTestTranscript() *model.Transcript {
	return model.NewTranscript(model.NewMessage(model.RoleAssistant, model.DefaultGreeting, time.Now()))
}

func TestNewMessageAssignsUniqueIDs(t *testing.T) {
	now := time.Now()
	a := model.NewMessage(model.RoleUser, "hello", now)
	b := model.NewMessage(model.RoleUser, "hello", now)

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Errorf("ids should differ, both %q", a.ID)
	}
	if !a.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", a.Timestamp, now)
	}
}

func TestTranscriptHistoryExcludesGreeting(t *testing.T) {
	tr := newTestTranscript()

	if got := tr.History(); len(got) != 0 {
		t.Fatalf("History() on new transcript = %d entries, want 0", len(got))
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}

	q := model.NewMessage(model.RoleUser, "Should I raise prices?", time.Now())
	a := model.NewMessage(model.RoleAssistant, "Yes, on Fridays.", time.Now())
	tr.Append(q)
	tr.Append(a)

	history := tr.History()
	if len(history) != 2 {
		t.Fatalf("History() = %d entries, want 2", len(history))
	}
	if history[0].ID != q.ID || history[1].ID != a.ID {
		t.Errorf("History() order wrong: %+v", history)
	}
	if tr.Greeting().Content != model.DefaultGreeting {
		t.Errorf("Greeting() = %q", tr.Greeting().Content)
	}
	if got := tr.Messages(); len(got) != 3 || got[0].Content != model.DefaultGreeting {
		t.Errorf("Messages() = %+v", got)
	}
}

func TestTranscriptHistoryIsCopy(t *testing.T) {
	tr := newTestTranscript()
	tr.Append(model.NewMessage(model.RoleUser, "original", time.Now()))

	history := tr.History()
	history[0].Content = "mutated"

	if got := tr.Last().Content; got != "original" {
		t.Errorf("transcript changed through History(): %q", got)
	}
}

func TestTranscriptLastAssistant(t *testing.T) {
	tr := newTestTranscript()

	if _, ok := tr.LastAssistant(); ok {
		t.Error("greeting must not count as an assistant reply")
	}

	tr.Append(model.NewMessage(model.RoleUser, "q1", time.Now()))
	tr.Append(model.NewMessage(model.RoleAssistant, "a1", time.Now()))
	tr.Append(model.NewMessage(model.RoleUser, "q2", time.Now()))

	msg, ok := tr.LastAssistant()
	if !ok || msg.Content != "a1" {
		t.Errorf("LastAssistant() = %q, %v; want a1, true", msg.Content, ok)
	}
}

func TestTranscriptSearch(t *testing.T) {
	tr := newTestTranscript()
	tr.Append(model.NewMessage(model.RoleUser, "What about weekend rates?", time.Now()))
	tr.Append(model.NewMessage(model.RoleAssistant, "Raise weekend rates by 10%.", time.Now()))
	tr.Append(model.NewMessage(model.RoleUser, "And occupancy in March?", time.Now()))

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "empty query", query: "", wantCount: 0},
		{name: "two matches", query: "weekend", wantCount: 2},
		{name: "single match", query: "occupancy", wantCount: 1},
		{name: "greeting not searchable", query: "pricing assistant", wantCount: 0},
		{name: "no match", query: "zzzz", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Search(tt.query)
			if len(got) != tt.wantCount {
				t.Errorf("Search(%q) = %d results, want %d", tt.query, len(got), tt.wantCount)
			}
		})
	}
}
