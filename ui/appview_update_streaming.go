package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pricepilot/config"
)

// handleStreamingMessage feeds a stream message to the session and redraws.
// The session decides whether the message belongs to the in-flight request.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	committed := a.session.Transcript().Len()
	next := a.session.Update(msg)

	switch msg := msg.(type) {
	case streamTokenMsg:
		a.updateViewportContent(true)
		return a, next

	case streamDoneMsg:
		if a.session.Transcript().Len() == committed {
			return a, nil
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] response committed - %d chars", len(msg.FullResponse))
		}
		a.updateViewportContent(true)
		return a, a.renderMarkdownAsync(a.session.Transcript().Last())

	case streamErrorMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] response failed: %v", msg.Err)
		}
		a.updateViewportContent(true)
	}

	return a, next
}
