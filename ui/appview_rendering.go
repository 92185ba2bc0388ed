package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"pricepilot/config"
	"pricepilot/model"
)

const (
	codeBar        = "┃"
	codeRule       = "━"
	streamCursor   = "▋"
	minRenderWidth = 20
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// updateViewportContent redraws the transcript, the in-flight response and
// the retained error.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	var content strings.Builder
	line := 0

	write := func(s string) {
		content.WriteString(s)
		line += strings.Count(s, "\n")
	}

	for k := range a.messageLines {
		delete(a.messageLines, k)
	}

	for _, msg := range a.session.Transcript().Messages() {
		a.messageLines[msg.ID] = line

		highlightPrefix := ""
		if msg.ID != "" && msg.ID == a.highlightedMessageID {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		if msg.Role == model.RoleUser {
			write(formatUserMessage(highlightPrefix, timestamp, UserStyle.Render("You"), msg.Content))
			continue
		}

		body := msg.Content
		if rendered, ok := a.rendered[msg.ID]; ok {
			body = rendered
		}
		write(fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, AssistantStyle.Render("Assistant"), body))
	}

	switch a.session.Status() {
	case model.StatusAwaitingFirstToken:
		write(a.streamingBlock(a.loadingSpinner.View() + " Thinking..."))
	case model.StatusStreaming:
		write(a.streamingBlock(a.session.Buffer() + streamCursor))
	}

	if errText := a.session.LastError(); errText != "" {
		write(a.errorBanner(errText))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) streamingBlock(body string) string {
	timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
	return fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), body)
}

func (a *AppView) errorBanner(errText string) string {
	text := "⚠ " + errText
	if maxWidth := a.width - 4; maxWidth > 0 {
		text = lipgloss.NewStyle().Width(maxWidth).Render(text)
	}
	return ErrorStyle.Render(text) + "\n" + DimStyle.Render("Press Esc to dismiss, or send another message.") + "\n"
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	bar := UserStyle.Render(codeBar)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderMarkdownAsync renders a committed assistant reply off the Update
// goroutine. The message is delivered as plain text until this returns.
func (a AppView) renderMarkdownAsync(msg Message) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		return markdownRenderedMsg{
			MessageID: msg.ID,
			Width:     width,
			Rendered:  renderMarkdown(msg.Content, width),
		}
	}
}

func renderMarkdown(content string, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	startTime := time.Now()

	// Plain URLs only, so the terminal can make them clickable.
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	processed := postProcessMarkdown(string(rendered), width)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] markdown rendered: %d chars in %v", len(content), time.Since(startTime))
	}
	return strings.TrimRight(processed, "\n")
}

func postProcessMarkdown(rendered string, width int) string {
	// Inline code: blue background becomes red text.
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = colorURLs(rendered)
	return frameCodeBlocks(rendered, width)
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's left bar on code lines with a
// labelled rule above and below the block.
func frameCodeBlocks(s string, width int) string {
	const darkGray, reset = "\x1b[90m", "\x1b[0m"

	ruleLen := width - 4
	if ruleLen < 0 {
		ruleLen = 0
	}
	bottom := darkGray + strings.Repeat(codeRule, ruleLen) + reset

	var result []string
	inCodeBlock := false

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				label := "[code]"
				left := (ruleLen - len(label)) / 2
				if left < 0 {
					left = 0
				}
				right := ruleLen - len(label) - left
				if right < 0 {
					right = 0
				}
				top := darkGray + strings.Repeat(codeRule, left) + reset + label + darkGray + strings.Repeat(codeRule, right) + reset
				result = append(result, "", top, "")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			result = append(result, "", bottom, "")
			inCodeBlock = false
		}
		result = append(result, line)
	}

	if inCodeBlock {
		result = append(result, "", bottom, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	rest := line[idx+len(codeBar):]
	return strings.TrimPrefix(rest, " ")
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
