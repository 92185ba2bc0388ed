package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("PricePilot - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	row := func(keys, desc string) string {
		return fmt.Sprintf("• %-13s %s", keys, desc)
	}

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		row("Enter", "Send message"),
		row("Alt+Enter", "New line"),
		row("Esc", "Dismiss error"),
		row("Alt+Y", "Copy last reply"),
		row("Alt+C", "Copy conversation"),
		row("Alt+F", "Search conversation"),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		row("Alt+J", "Half page down"),
		row("Alt+K", "Half page up"),
		row("PgDn/PgUp", "Full page"),
		row("Alt+G", "Jump to top"),
		row("Alt+Shift+G", "Jump to bottom"),
		row("Alt+H", "Toggle this help"),
		row("Alt+Q", "Quit"),
	)

	columnStyle := lipgloss.NewStyle().Width(38).PaddingLeft(4)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(chatActions),
		columnStyle.Render(navigation),
	)

	footer := DimStyle.Render("Press Alt+H or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		columns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBox.Render(content))
}
