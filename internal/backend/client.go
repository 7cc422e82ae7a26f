// Package backend is the HTTP client for the scrape-and-chat service:
// session creation, scrape triggering and readiness polling.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"webiq/internal/telemetry"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StatusReady is the session_status value that means indexing has finished.
const StatusReady = "ready"

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (scheme and host, optional path prefix).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type createSessionResponse struct {
	Session string `json:"session"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type scrapeRequest struct {
	SessionID string   `json:"session_id"`
	URLs      []string `json:"urls"`
}

// CreateSession asks the backend for a new session identifier.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp createSessionResponse
	if err := c.do(ctx, "create_session", http.MethodGet, "/create_session", nil, &resp); err != nil {
		return "", err
	}
	if resp.Session == "" {
		return "", errors.New("create session: empty session id in response")
	}
	return resp.Session, nil
}

// SessionStatus returns the raw status string for a session.
func (c *Client) SessionStatus(ctx context.Context, sessionID string) (string, error) {
	var resp statusResponse
	path := "/session_status/" + url.PathEscape(sessionID)
	if err := c.do(ctx, "session_status", http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Scrape asks the backend to scrape and index urls for the session.
// The response body is ignored.
func (c *Client) Scrape(ctx context.Context, sessionID string, urls []string) error {
	body := scrapeRequest{SessionID: sessionID, URLs: urls}
	return c.do(ctx, "scrape", http.MethodPost, "/scrape/", body, nil)
}

// WaitReady polls SessionStatus until it reports ready.
// Errors are logged and retried; only ctx cancellation stops the loop early.
// onPending, if non-nil, is called after each attempt that did not report ready.
func (c *Client) WaitReady(ctx context.Context, sessionID string, interval time.Duration, onPending func(attempt int, err error)) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		status, err := c.SessionStatus(ctx, sessionID)
		if err == nil && status == StatusReady {
			log.Info().Str("session_id", sessionID).Int("attempts", attempt).Msg("session ready")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Str("session_id", sessionID).Msg("error checking session status")
		} else {
			log.Debug().Str("session_id", sessionID).Str("status", status).Msg("initializing")
		}
		if onPending != nil {
			onPending(attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ChatURL derives the WebSocket chat endpoint for a session.
func (c *Client) ChatURL(sessionID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse base url %q", c.baseURL)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/chat/" + url.PathEscape(sessionID)
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	ctx, span := telemetry.Tracer().Start(ctx, "backend."+op)
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("webiq.request_id", requestID),
	)

	err := c.roundTrip(ctx, method, path, requestID, in, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrap(err, op)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, requestID string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
