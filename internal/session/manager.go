// Package session creates, restores and forgets backend sessions.
//
// A session is identified by an opaque id issued by the backend. The id is
// cached in a Store so a conversation can resume after a restart.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoURLs is returned by Start when no URL was supplied.
	ErrNoURLs = errors.New("enter at least one URL")
	// ErrNoSession is returned by Restore when nothing is cached.
	ErrNoSession = errors.New("no cached session")
)

// Backend is the subset of the backend client the manager drives.
type Backend interface {
	CreateSession(ctx context.Context) (string, error)
	Scrape(ctx context.Context, sessionID string, urls []string) error
	WaitReady(ctx context.Context, sessionID string, interval time.Duration, onPending func(attempt int, err error)) error
}

// Stage identifies a step of the session lifecycle.
type Stage string

const (
	StageCreating Stage = "creating"
	StageScraping Stage = "scraping"
	StageWaiting  Stage = "waiting"
	StagePending  Stage = "pending"
	StageReady    Stage = "ready"
)

// Event reports lifecycle progress to the caller.
type Event struct {
	Stage     Stage
	SessionID string
	Attempt   int
	Err       error
}

// ProgressFunc receives lifecycle events. It may be nil.
type ProgressFunc func(Event)

// Manager ties the session cache to the backend.
type Manager struct {
	backend      Backend
	store        *Store
	pollInterval time.Duration
}

// NewManager creates a manager polling readiness every pollInterval.
func NewManager(backend Backend, store *Store, pollInterval time.Duration) *Manager {
	return &Manager{backend: backend, store: store, pollInterval: pollInterval}
}

// Cached returns the cached session id, or "".
func (m *Manager) Cached() (string, error) {
	return m.store.Load()
}

// Start scrapes urls into the cached session (creating one first if needed)
// and blocks until the backend reports it ready. Returns the session id.
func (m *Manager) Start(ctx context.Context, urls []string, progress ProgressFunc) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoURLs
	}
	emit := emitter(progress)

	id, err := m.store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable session cache")
		id = ""
	}
	if id == "" {
		emit(Event{Stage: StageCreating})
		id, err = m.backend.CreateSession(ctx)
		if err != nil {
			return "", err
		}
		// A reset may have cleared the cache while the request was in flight.
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := m.store.Save(id); err != nil {
			return "", err
		}
		log.Info().Str("session_id", id).Msg("created session")
	}

	emit(Event{Stage: StageScraping, SessionID: id})
	log.Info().Str("session_id", id).Strs("urls", urls).Msg("scrape requested")
	if err := m.backend.Scrape(ctx, id, urls); err != nil {
		return id, err
	}

	if err := m.wait(ctx, id, emit); err != nil {
		return id, err
	}
	return id, nil
}

// Restore waits for the cached session to become ready.
func (m *Manager) Restore(ctx context.Context, progress ProgressFunc) (string, error) {
	id, err := m.store.Load()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNoSession
	}
	log.Info().Str("session_id", id).Msg("restoring session")
	if err := m.wait(ctx, id, emitter(progress)); err != nil {
		return id, err
	}
	return id, nil
}

// Reset forgets the cached session.
func (m *Manager) Reset() error {
	log.Info().Msg("session reset")
	return m.store.Clear()
}

func (m *Manager) wait(ctx context.Context, id string, emit ProgressFunc) error {
	emit(Event{Stage: StageWaiting, SessionID: id})
	err := m.backend.WaitReady(ctx, id, m.pollInterval, func(attempt int, err error) {
		emit(Event{Stage: StagePending, SessionID: id, Attempt: attempt, Err: err})
	})
	if err != nil {
		return err
	}
	emit(Event{Stage: StageReady, SessionID: id})
	return nil
}

func emitter(p ProgressFunc) ProgressFunc {
	if p == nil {
		return func(Event) {}
	}
	return p
}

// ParseURLs splits comma-separated input into trimmed, non-empty URLs.
func ParseURLs(input string) []string {
	parts := strings.Split(input, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if u := strings.TrimSpace(p); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
