package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pricepilot/config"
	"pricepilot/model"
)

const noticeDuration = 2 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true

		var cmds []tea.Cmd
		if a.renderWidth != a.width {
			// Renderings are width specific; rebuild them all.
			a.renderWidth = a.width
			for id := range a.rendered {
				delete(a.rendered, id)
			}
			for _, m := range a.session.Transcript().Messages() {
				if m.Role == model.RoleAssistant {
					cmds = append(cmds, a.renderMarkdownAsync(m))
				}
			}
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		if a.session.Status() != model.StatusAwaitingFirstToken {
			return a, nil
		}
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case streamTokenMsg, streamDoneMsg, streamErrorMsg:
		return a.handleStreamingMessage(msg)

	case markdownRenderedMsg:
		if msg.Width != a.renderWidth {
			return a, nil
		}
		a.rendered[msg.MessageID] = msg.Rendered
		a.updateViewportContent(a.viewport.AtBottom())
		return a, nil

	case clipboardCopiedMsg:
		if msg.Err != nil {
			return a.showNotice(fmt.Sprintf("Copy failed: %v", msg.Err))
		}
		return a.showNotice("Copied to clipboard")

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "alt+q":
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] quit requested (status=%s)", a.session.Status())
		}
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h":
			a.showHelp = false
		}
		return a, nil
	}

	if a.showMessageSearch {
		return a.handleMessageSearchKey(msg)
	}

	switch msg.String() {
	case "alt+h":
		a.showHelp = true
		return a, nil

	case "alt+f":
		a.openMessageSearch()
		return a, nil

	case "esc":
		if a.session.LastError() != "" {
			a.session.DismissError()
			a.updateViewportContent(true)
		}
		return a, nil

	case "enter":
		return a.submit()

	case "alt+y":
		if reply, ok := a.session.Transcript().LastAssistant(); ok {
			return a, copyToClipboard(reply.Content)
		}
		return a.showNotice("Nothing to copy yet")

	case "alt+c":
		return a, copyToClipboard(formatConversation(a.session.Transcript().Messages()))

	case "alt+j", "alt+down":
		a.viewport.HalfPageDown()
		return a, nil

	case "alt+k", "alt+up":
		a.viewport.HalfPageUp()
		return a, nil

	case "pgdown":
		a.viewport.PageDown()
		return a, nil

	case "pgup":
		a.viewport.PageUp()
		return a, nil

	case "alt+g":
		a.viewport.GotoTop()
		return a, nil

	case "alt+G":
		a.viewport.GotoBottom()
		return a, nil
	}

	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit hands the input to the session. A busy session or blank input
// leaves the text in place.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	streamCmd := a.session.Submit(a.textarea.Value())
	if streamCmd == nil {
		return a, nil
	}

	a.textarea.Reset()
	a.highlightedMessageID = ""
	a.updateViewportContent(true)

	return a, tea.Batch(streamCmd, a.loadingSpinner.Tick)
}

func (a AppView) showNotice(text string) (tea.Model, tea.Cmd) {
	a.noticeSeq++
	a.notice = text
	seq := a.noticeSeq
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

func formatConversation(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		role := "Assistant"
		if msg.Role == model.RoleUser {
			role = "You"
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), role, msg.Content))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
