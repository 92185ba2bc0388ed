package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pricepilot/model"
)

const searchPreviewWidth = 100

func (a *AppView) openMessageSearch() {
	a.showMessageSearch = true
	a.messageSearchInput.SetValue("")
	a.messageSearchResults = nil
	a.selectedSearchIdx = 0
	a.messageSearchScrollIdx = 0
	a.textarea.Blur()
	a.messageSearchInput.Focus()
}

func (a *AppView) closeMessageSearch() {
	a.showMessageSearch = false
	a.messageSearchInput.Blur()
	a.textarea.Focus()
}

func (a AppView) handleMessageSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.closeMessageSearch()
		return a, nil

	case "enter":
		if len(a.messageSearchResults) > 0 {
			a.jumpToMessage(a.messageSearchResults[a.selectedSearchIdx].ID)
		}
		a.closeMessageSearch()
		return a, nil

	case "down", "ctrl+j", "alt+j":
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
			a.adjustSearchScroll()
		}
		return a, nil

	case "up", "ctrl+k", "alt+k":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			a.adjustSearchScroll()
		}
		return a, nil
	}

	before := a.messageSearchInput.Value()
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)
	if query := a.messageSearchInput.Value(); query != before {
		a.messageSearchResults = a.session.Transcript().Search(query)
		a.selectedSearchIdx = 0
		a.messageSearchScrollIdx = 0
	}
	return a, cmd
}

func (a *AppView) adjustSearchScroll() {
	visible := searchVisibleResults(a.height)
	if a.selectedSearchIdx < a.messageSearchScrollIdx {
		a.messageSearchScrollIdx = a.selectedSearchIdx
	}
	if a.selectedSearchIdx >= a.messageSearchScrollIdx+visible {
		a.messageSearchScrollIdx = a.selectedSearchIdx - visible + 1
	}
}

// jumpToMessage highlights a message and scrolls it to the top of the viewport.
func (a *AppView) jumpToMessage(id string) {
	a.highlightedMessageID = id
	a.updateViewportContent(false)
	if line, ok := a.messageLines[id]; ok {
		a.viewport.SetYOffset(line)
	}
}

// searchVisibleResults estimates how many results fit, assuming wrapped
// previews take up to four lines each.
func searchVisibleResults(height int) int {
	// border, padding, title, input, count line, footer and the blanks between
	const fixedOverhead = 12
	const linesPerResult = 4

	visible := (height - fixedOverhead) / linesPerResult
	if visible < 1 {
		visible = 1
	}
	return visible
}

func searchPreview(content string) string {
	preview := strings.Join(strings.Fields(stripANSI(content)), " ")
	return truncateToWidth(preview, searchPreviewWidth)
}

func renderMessageSearch(searchInput textinput.Model, results []Message, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("Search Conversation")

	var resultsView strings.Builder
	switch {
	case len(results) == 0 && searchInput.Value() == "":
		resultsView.WriteString(DimStyle.Render("Type to search this conversation..."))
	case len(results) == 0:
		resultsView.WriteString(DimStyle.Render("No matches found"))
	default:
		endIdx := scrollIdx + searchVisibleResults(height)
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView.WriteString(fmt.Sprintf("Found %d matches:\n\n", len(results)))
		if scrollIdx > 0 {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↑ %d more above", scrollIdx)) + "\n\n")
		}

		for i := scrollIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Role == model.RoleAssistant {
				roleStyle = AssistantStyle
			}

			matchText := fmt.Sprintf("%s [%s]\n  %s",
				roleStyle.Render(string(match.Role)),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				searchPreview(match.Content),
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> ") + matchText
			} else {
				matchText = "  " + matchText
			}
			resultsView.WriteString(matchText + "\n\n")
		}

		if endIdx < len(results) {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx)))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchInput.View(),
		"",
		resultsView.String(),
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
