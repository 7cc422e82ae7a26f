package ui

import (
	"time"

	"webiq/internal/chat"
	"webiq/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// lifecycleMsg carries a session progress event from a running Start/Restore.
// next re-arms the listener on the same stream.
type lifecycleMsg struct {
	epoch int
	event session.Event
	next  tea.Cmd
}

// sessionDoneMsg ends a Start/Restore stream.
type sessionDoneMsg struct {
	epoch     int
	sessionID string
	err       error
	restore   bool
}

// socketOpenMsg is sent when the chat socket is connected.
type socketOpenMsg struct {
	epoch  int
	socket Socket
}

// socketFailedMsg is sent when the chat socket could not be opened.
type socketFailedMsg struct {
	epoch int
	err   error
}

// socketEventMsg relays one event read from the chat socket.
type socketEventMsg struct {
	epoch  int
	socket Socket
	event  chat.Event
}

// sendFailedMsg is sent when a question could not be written.
type sendFailedMsg struct {
	epoch int
	err   error
}

// particleTickMsg advances the particle field.
type particleTickMsg time.Time
