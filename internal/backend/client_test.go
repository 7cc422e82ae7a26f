package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func TestClient_CreateSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/create_session", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"session":"s-123"}`))
	}))

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s-123", id)
}

func TestClient_CreateSession_EmptyID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.CreateSession(context.Background())
	assert.ErrorContains(t, err, "empty session id")
}

func TestClient_Scrape_SendsJSON(t *testing.T) {
	var got scrapeRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scrape/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"started"}`))
	}))

	err := c.Scrape(context.Background(), "s-1", []string{"https://a.example", "https://b.example"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.SessionID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got.URLs)
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.SessionStatus(context.Background(), "s-1")
	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestClient_WaitReady_RetriesUntilReady(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session_status/s-9", r.URL.Path)
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			http.Error(w, "warming up", http.StatusServiceUnavailable)
		case 2:
			_, _ = w.Write([]byte(`not json`))
		case 3:
			_, _ = w.Write([]byte(`{"status":"processing"}`))
		default:
			_, _ = w.Write([]byte(`{"status":"ready"}`))
		}
	}))

	var pending []int
	err := c.WaitReady(context.Background(), "s-9", time.Millisecond, func(attempt int, err error) {
		pending = append(pending, attempt)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, []int{1, 2, 3}, pending)
}

func TestClient_WaitReady_Cancelled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"processing"}`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := c.WaitReady(ctx, "s-1", 5*time.Millisecond, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://example.hf.space", "wss://example.hf.space/ws/chat/abc"},
		{"http://localhost:8000/", "ws://localhost:8000/ws/chat/abc"},
		{"http://localhost:8000/api", "ws://localhost:8000/api/ws/chat/abc"},
	}
	for _, tc := range cases {
		got, err := NewClient(tc.base, time.Second).ChatURL("abc")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
