package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/veritas/internal/config"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/internal/providers/llm"
	"github.com/sandevgo/veritas/internal/service/relay"
)

type memRepo struct {
	data map[string]core.Conversation
}

func (m *memRepo) Load(_ context.Context, userID string) (core.Conversation, error) {
	return m.data[userID], nil
}

func (m *memRepo) Save(_ context.Context, userID string, conv core.Conversation) error {
	m.data[userID] = conv
	return nil
}

type stubProvider struct {
	fragments []string
	openErr   error
}

func (p *stubProvider) ChatStream(ctx context.Context, _ []core.ProviderMessage) (<-chan core.StreamEvent, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	events := make(chan core.StreamEvent)
	go func() {
		defer close(events)
		for _, f := range p.fragments {
			select {
			case events <- core.StreamEvent{Content: f}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func newTestServer(t *testing.T, provider core.StreamProvider) (*Server, *memRepo) {
	t.Helper()
	repo := &memRepo{data: make(map[string]core.Conversation)}
	cfg := &config.ServerConfig{
		ListenAddr:      ":0",
		AllowOrigins:    []string{"*"},
		ShutdownTimeout: time.Second,
	}
	srv := NewServer(context.Background(), cfg, relay.New(repo, provider))
	return srv, repo
}

func doJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestNewSession_RequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t, &stubProvider{})

	rec := doJSON(t, srv, "/new_session", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNewSession_SeedsWelcomeTurn(t *testing.T) {
	srv, repo := newTestServer(t, &stubProvider{})

	rec := doJSON(t, srv, "/new_session", `{"user_id":"u1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != relay.WelcomeMessage {
		t.Errorf("message = %q, want welcome text", resp.Message)
	}

	conv := repo.data["u1"]
	if len(conv) != 1 || conv[0].Role != core.RoleModel || conv[0].Content() != relay.WelcomeMessage {
		t.Errorf("seeded conversation = %+v", conv)
	}
}

func TestHistory_RequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t, &stubProvider{})

	rec := doJSON(t, srv, "/history", `{"message":"no id"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHistory_EmptyIsValid(t *testing.T) {
	srv, _ := newTestServer(t, &stubProvider{})

	rec := doJSON(t, srv, "/history", `{"user_id":"nobody"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		History []core.Turn `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.History == nil || len(resp.History) != 0 {
		t.Errorf("history = %v, want empty array", resp.History)
	}
	if !strings.Contains(rec.Body.String(), `"history":[]`) {
		t.Errorf("body = %s, want history serialized as []", rec.Body.String())
	}
}

func TestChat_RequiresBothFields(t *testing.T) {
	srv, _ := newTestServer(t, &stubProvider{})

	for _, body := range []string{`{}`, `{"user_id":"u1"}`, `{"message":"hi"}`} {
		rec := doJSON(t, srv, "/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestChat_StreamsPlainText(t *testing.T) {
	srv, repo := newTestServer(t, &stubProvider{fragments: []string{"I'm", " sorry", " to hear that."}})

	rec := doJSON(t, srv, "/chat", `{"user_id":"u1","message":"I have a headache"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}
	if rec.Body.String() != "I'm sorry to hear that." {
		t.Errorf("body = %q", rec.Body.String())
	}

	conv := repo.data["u1"]
	if len(conv) != 2 {
		t.Fatalf("stored %d turns, want 2", len(conv))
	}
	if conv[1].Content() != "I'm sorry to hear that." {
		t.Errorf("committed reply = %q", conv[1].Content())
	}
}

func TestChat_UpstreamHTTPErrorBecomes500Diagnostic(t *testing.T) {
	srv, repo := newTestServer(t, &stubProvider{
		openErr: &llm.HTTPError{StatusCode: http.StatusTooManyRequests, Body: "rate limited"},
	})

	rec := doJSON(t, srv, "/chat", `{"user_id":"u1","message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "429") || !strings.Contains(rec.Body.String(), "rate limited") {
		t.Errorf("body = %q, want diagnostic with upstream status and body", rec.Body.String())
	}
	if len(repo.data) != 0 {
		t.Errorf("nothing should be saved, store = %+v", repo.data)
	}
}
