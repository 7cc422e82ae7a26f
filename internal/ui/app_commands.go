package ui

import (
	"context"
	"time"

	"webiq/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// particleFrame is the particle animation period (~30 fps).
const particleFrame = time.Second / 30

// lifecycleCmd runs fn in the background and streams its progress events,
// followed by a single sessionDoneMsg. Sends stop once ctx is cancelled so
// an abandoned stream never blocks.
func lifecycleCmd(ctx context.Context, epoch int, restore bool, fn func(session.ProgressFunc) (string, error)) tea.Cmd {
	ch := make(chan tea.Msg, 16)
	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(ch)
		id, err := fn(func(ev session.Event) {
			send(lifecycleMsg{epoch: epoch, event: ev})
		})
		send(sessionDoneMsg{epoch: epoch, sessionID: id, err: err, restore: restore})
	}()

	var listen tea.Cmd
	listen = func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		if lm, ok := msg.(lifecycleMsg); ok {
			lm.next = listen
			return lm
		}
		return msg
	}
	return listen
}

// dialCmd opens the chat socket for sessionID.
func dialCmd(ctx context.Context, dial DialFunc, epoch int, sessionID string) tea.Cmd {
	return func() tea.Msg {
		sock, err := dial(ctx, sessionID)
		if err != nil {
			return socketFailedMsg{epoch: epoch, err: err}
		}
		return socketOpenMsg{epoch: epoch, socket: sock}
	}
}

// listenSocketCmd waits for the next socket event.
func listenSocketCmd(epoch int, sock Socket) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sock.Events()
		if !ok {
			return nil
		}
		return socketEventMsg{epoch: epoch, socket: sock, event: ev}
	}
}

// sendCmd writes a question on the socket.
func sendCmd(epoch int, sock Socket, query string) tea.Cmd {
	return func() tea.Msg {
		if err := sock.Send(query); err != nil {
			log.Error().Err(err).Msg("send failed")
			return sendFailedMsg{epoch: epoch, err: err}
		}
		return nil
	}
}

// particleTickCmd schedules the next animation frame.
func particleTickCmd() tea.Cmd {
	return tea.Tick(particleFrame, func(t time.Time) tea.Msg {
		return particleTickMsg(t)
	})
}
