package model

// Stream messages re-enter the bubbletea Update loop from the streaming
// goroutine. Seq ties each message to the submission that produced it.

type StreamTokenMsg struct {
	Seq   uint64
	Token string
}

type StreamDoneMsg struct {
	Seq          uint64
	FullResponse string
}

type StreamErrorMsg struct {
	Seq uint64
	Err error
}

type ClipboardCopiedMsg struct {
	Err error
}
