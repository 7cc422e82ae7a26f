// Package chat relays questions and answers over the backend's WebSocket endpoint.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned when sending on a closed connection.
var ErrClosed = errors.New("chat connection closed")

const writeWait = 10 * time.Second

// EventKind classifies an incoming event.
type EventKind int

const (
	EventText EventKind = iota
	EventError
	EventClosed
	// EventSkipped marks a frame with nothing to show: invalid JSON, or
	// neither text nor error.
	EventSkipped
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Event is one item relayed from the server. Every received frame yields
// at least one event.
// For EventClosed, Err is nil on a clean close.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

type outbound struct {
	Query string `json:"query"`
}

type inbound struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Conn is an open chat socket.
type Conn struct {
	ws     *websocket.Conn
	events chan Event

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial opens the chat socket and starts relaying incoming frames.
func Dial(ctx context.Context, url string, handshakeTimeout time.Duration) (*Conn, error) {
	dialer := &websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: handshakeTimeout,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "websocket dial failed")
	}
	log.Info().Str("url", url).Msg("chat socket open")

	c := &Conn{
		ws:     ws,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers relayed events. The channel is closed after EventClosed.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// Send writes a question to the server.
func (c *Conn) Send(query string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	// Close may have won the race for writeMu.
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(outbound{Query: query}); err != nil {
		return errors.Wrap(err, "send query")
	}
	log.Debug().Int("len", len(query)).Msg("query sent")
	return nil
}

// Close sends a normal close frame and releases the socket. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.emit(Event{Kind: EventClosed, Err: c.closeReason(err)})
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("invalid JSON from server")
			c.emit(Event{Kind: EventSkipped})
			continue
		}
		if msg.Text == "" && msg.Error == "" {
			log.Debug().Msg("empty frame from server")
			c.emit(Event{Kind: EventSkipped})
			continue
		}
		if msg.Text != "" {
			c.emit(Event{Kind: EventText, Text: msg.Text})
		}
		if msg.Error != "" {
			c.emit(Event{Kind: EventError, Text: msg.Error})
		}
	}
}

func (c *Conn) closeReason(err error) error {
	select {
	case <-c.done:
		return nil
	default:
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Info().Msg("chat socket closed by server")
		return nil
	}
	log.Warn().Err(err).Msg("chat socket read failed")
	return err
}

func (c *Conn) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}
