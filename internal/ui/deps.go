package ui

import (
	"context"

	"webiq/internal/chat"
	"webiq/internal/session"
)

// Lifecycle creates, restores and forgets backend sessions.
type Lifecycle interface {
	Cached() (string, error)
	Start(ctx context.Context, urls []string, progress session.ProgressFunc) (string, error)
	Restore(ctx context.Context, progress session.ProgressFunc) (string, error)
	Reset() error
}

// Socket is an open chat connection.
type Socket interface {
	Events() <-chan chat.Event
	Send(query string) error
	Close() error
}

// DialFunc opens the chat socket for a session.
type DialFunc func(ctx context.Context, sessionID string) (Socket, error)

var _ Lifecycle = (*session.Manager)(nil)
var _ Socket = (*chat.Conn)(nil)
