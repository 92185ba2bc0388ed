package ui

import (
	"pricepilot/model"
)

type Message = model.Message

type streamTokenMsg = model.StreamTokenMsg
type streamDoneMsg = model.StreamDoneMsg
type streamErrorMsg = model.StreamErrorMsg
type clipboardCopiedMsg = model.ClipboardCopiedMsg

// markdownRenderedMsg carries the terminal rendering of a committed reply.
// Width is the viewport width it was rendered for; stale widths are dropped.
type markdownRenderedMsg struct {
	MessageID string
	Width     int
	Rendered  string
}

type noticeExpiredMsg struct {
	seq int
}
