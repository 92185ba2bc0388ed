package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pricepilot/config"
	"pricepilot/model"
	"pricepilot/provider/testutil"
)

func newTestView(t *testing.T, p model.Provider) AppView {
	t.Helper()
	session := model.NewSession(p, nil, model.SessionConfig{})
	view := NewAppView(&config.Config{}, session)

	next, _ := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppView)
}

func typeText(t *testing.T, a AppView, text string) AppView {
	t.Helper()
	next, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(AppView)
}

func press(t *testing.T, a AppView, key tea.KeyType) (AppView, tea.Cmd) {
	t.Helper()
	next, cmd := a.Update(tea.KeyMsg{Type: key})
	return next.(AppView), cmd
}

func TestAppViewSubmitAndStream(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("Raise weekend rates.", "Raise ", "weekend rates."))

	a = typeText(t, a, "Should I raise prices?")
	a, cmd := press(t, a, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Enter should start a request")
	}
	if a.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", a.textarea.Value())
	}
	if a.session.Status() != model.StatusAwaitingFirstToken {
		t.Errorf("status = %v, want awaiting-first-token", a.session.Status())
	}

	next, _ := a.Update(model.StreamTokenMsg{Seq: 1, Token: "Raise "})
	a = next.(AppView)
	if !strings.Contains(a.viewport.View(), "Raise "+streamCursor) {
		t.Error("streaming buffer not shown with cursor")
	}

	next, renderCmd := a.Update(model.StreamDoneMsg{Seq: 1, FullResponse: "Raise weekend rates."})
	a = next.(AppView)
	if renderCmd == nil {
		t.Fatal("expected a markdown render command after completion")
	}
	if a.session.Transcript().Len() != 3 {
		t.Errorf("transcript length = %d, want 3", a.session.Transcript().Len())
	}

	rendered, ok := renderCmd().(markdownRenderedMsg)
	if !ok {
		t.Fatal("render command did not return markdownRenderedMsg")
	}
	if rendered.MessageID != a.session.Transcript().Last().ID {
		t.Errorf("rendered id = %q, want last message id", rendered.MessageID)
	}

	next, _ = a.Update(rendered)
	a = next.(AppView)
	if _, ok := a.rendered[rendered.MessageID]; !ok {
		t.Error("rendered markdown not stored")
	}
}

func TestAppViewBlankEnterDoesNothing(t *testing.T) {
	mock := testutil.NewMockProvider("unused")
	a := newTestView(t, mock)

	a = typeText(t, a, "   ")
	a, cmd := press(t, a, tea.KeyEnter)
	if cmd != nil {
		t.Error("blank input should not start a request")
	}
	if a.session.Transcript().Len() != 1 {
		t.Errorf("transcript length = %d, want 1", a.session.Transcript().Len())
	}
}

func TestAppViewErrorBannerAndDismiss(t *testing.T) {
	a := newTestView(t, testutil.NewFailingMockProvider("rate limited"))

	a = typeText(t, a, "hello")
	a, _ = press(t, a, tea.KeyEnter)

	next, _ := a.Update(model.StreamErrorMsg{Seq: 1, Err: errors.New("rate limited")})
	a = next.(AppView)

	if !strings.Contains(a.viewport.View(), "rate limited") {
		t.Error("error banner not shown")
	}
	if !strings.Contains(a.View(), "error") {
		t.Error("title should report the error status")
	}

	a, _ = press(t, a, tea.KeyEsc)
	if a.session.LastError() != "" {
		t.Errorf("error not dismissed: %q", a.session.LastError())
	}
	if strings.Contains(a.viewport.View(), "rate limited") {
		t.Error("error banner still shown after dismiss")
	}
}

func TestAppViewIgnoresStaleRender(t *testing.T) {
	a := newTestView(t, nil)

	next, _ := a.Update(markdownRenderedMsg{MessageID: "x", Width: a.renderWidth + 1, Rendered: "old"})
	a = next.(AppView)

	if _, ok := a.rendered["x"]; ok {
		t.Error("render for a stale width should be dropped")
	}
}

func TestFormatConversation(t *testing.T) {
	tr := model.NewTranscript(model.NewMessage(model.RoleAssistant, "Hi!", testTime()))
	tr.Append(model.NewMessage(model.RoleUser, "Rates?", testTime()))

	got := formatConversation(tr.Messages())
	want := "[09:30] Assistant:\nHi!\n\n[09:30] You:\nRates?\n"
	if got != want {
		t.Errorf("formatConversation() = %q, want %q", got, want)
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncate me", 8, "truncat…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateToWidth(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateToWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFrameCodeBlocks(t *testing.T) {
	in := "intro\n" + codeBar + " x := 1\n" + codeBar + " y := 2\noutro"
	got := frameCodeBlocks(in, 24)

	if strings.Contains(got, codeBar) {
		t.Error("code bar prefix should be stripped")
	}
	if !strings.Contains(got, "[code]") {
		t.Error("missing code label")
	}
	if !strings.Contains(got, "x := 1\ny := 2") {
		t.Errorf("code lines not preserved: %q", got)
	}
}

func testTime() time.Time {
	return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
}
