package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pricepilot/config"
	"pricepilot/model"
)

type AppView struct {
	// Conversation state lives in the session; the view only renders it.
	session *model.Session
	cfg     *config.Config

	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	width  int
	height int
	ready  bool

	// Rendered markdown per committed assistant message ID. Shared between
	// AppView copies; cleared whenever the width changes.
	rendered    map[string]string
	renderWidth int

	// Viewport line where each message starts, rebuilt with the content.
	messageLines map[string]int

	showHelp bool

	showMessageSearch      bool
	messageSearchInput     textinput.Model
	messageSearchResults   []Message
	selectedSearchIdx      int
	messageSearchScrollIdx int
	highlightedMessageID   string

	// Short-lived status line notice (clipboard results).
	notice    string
	noticeSeq int
}

func NewAppView(cfg *config.Config, session *model.Session) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about rates, demand or your booking data..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter inserts a newline; Enter submits and is handled by AppView.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	messageSearchInput := textinput.New()
	messageSearchInput.Prompt = "Search: "
	messageSearchInput.CharLimit = 100

	return AppView{
		session:            session,
		cfg:                cfg,
		textarea:           ta,
		viewport:           viewport.New(0, 0),
		loadingSpinner:     sp,
		rendered:           make(map[string]string),
		messageLines:       make(map[string]int),
		messageSearchInput: messageSearchInput,
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading PricePilot..."
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showMessageSearch {
		return renderMessageSearch(a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.messageSearchScrollIdx, a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		"",
		a.viewport.View(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

func (a AppView) renderTitle() string {
	status := a.session.DisplayStatus()

	plain := fmt.Sprintf("PricePilot - %s - %s", a.session.ProviderName(), status)
	if runewidthFits(plain, a.width) {
		statusStyle := DimStyle
		if status == model.StatusError {
			statusStyle = ErrorStyle
		}
		return AssistantStyle.Render("PricePilot") +
			TitleStyle.Render(" - "+a.session.ProviderName()) +
			statusStyle.Render(" - "+status.String())
	}
	return TitleStyle.Render(truncateToWidth(plain, a.width))
}

func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		return StatusStyle.Render(truncateToWidth(a.notice, a.width))
	}

	hints := []string{
		"Enter", "Send",
		"Alt+Enter", "New Line",
		"Alt+Y", "Copy",
		"Alt+F", "Search",
		"Alt+H", "Help",
		"Alt+Q", "Quit",
	}
	if a.session.LastError() != "" {
		hints = append([]string{"Esc", "Dismiss error"}, hints...)
	}

	// Drop trailing hints until the bar fits.
	for len(hints) > 2 {
		if runewidthFits(plainFooter(hints...), a.width) {
			break
		}
		hints = hints[:len(hints)-2]
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	var bar string
	for i := 0; i+1 < len(hints); i += 2 {
		if i > 0 {
			bar += "  "
		}
		bar += hints[i] + " " + descStyle.Render(hints[i+1])
	}
	return StatusStyle.Render(bar)
}

// layout sizes the components for the current window.
func (a *AppView) layout() {
	// title (1) + spacer (1) + textarea (3) + status bar (1)
	viewportHeight := a.height - 6
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	a.viewport.Width = a.width
	a.viewport.Height = viewportHeight
	a.textarea.SetWidth(a.width)
}
