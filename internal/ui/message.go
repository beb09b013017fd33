package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/coursebook/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTaskDone MsgKind = iota
	MsgNotice
)

// taskDoneMsg is the constructor for [MsgTaskDone]
func taskDoneMsg(res tasks.Result) Msg {
	return Msg{kind: MsgTaskDone, data: res}
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(text string) Msg {
	return Msg{kind: MsgNotice, data: text}
}
