package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/veritas/internal/config"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Shivaay {
	return NewShivaay(&config.ShivaayConfig{
		APIURL:        url,
		AuthToken:     "test-token",
		Model:         "shivaay",
		StreamTimeout: 5 * time.Second,
	})
}

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(payload) + "\n\n"
}

func drain(t *testing.T, events <-chan core.StreamEvent) ([]string, error) {
	t.Helper()
	var fragments []string
	for ev := range events {
		if ev.Err != nil {
			return fragments, ev.Err
		}
		fragments = append(fragments, ev.Content)
	}
	return fragments, nil
}

func TestChatStream_FragmentsInOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "shivaay", payload["model"])
		assert.Equal(t, true, payload["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Hel")))
		w.Write([]byte(sseChunk("lo")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), []core.ProviderMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	fragments, streamErr := drain(t, events)
	require.NoError(t, streamErr)
	assert.Equal(t, []string{"Hel", "lo"}, fragments)
}

func TestChatStream_MalformedEventIsSkipped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sseChunk("before")))
		w.Write([]byte("data: {not json}\n\n"))
		w.Write([]byte(sseChunk("after")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	fragments, streamErr := drain(t, events)
	require.NoError(t, streamErr)
	assert.Equal(t, []string{"before", "after"}, fragments)
}

func TestChatStream_DoneSentinelIsNotContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	fragments, streamErr := drain(t, events)
	require.NoError(t, streamErr)
	assert.Empty(t, fragments)
}

func TestChatStream_EmptyDeltaIsSkipped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sseChunk("")))
		w.Write([]byte(sseChunk("only")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), nil)
	require.NoError(t, err)

	fragments, streamErr := drain(t, events)
	require.NoError(t, streamErr)
	assert.Equal(t, []string{"only"}, fragments)
}

func TestChatStream_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, events)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "bad token")
}

func TestChatStream_ConnectFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := newTestClient(srv.URL)
	events, err := client.ChatStream(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, events)
}
