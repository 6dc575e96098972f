package demo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/server"
)

type blockingRemote struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRemote) Optimize(ctx context.Context, html, kw string, score int) (optimizer.Result, error) {
	b.entered <- struct{}{}
	<-b.release
	return optimizer.Result{ScoreBefore: score, ScoreAfter: score + 1, Improvement: 1, OptimizedHTML: html}, nil
}

type failingRemote struct{ calls int }

func (f *failingRemote) Optimize(context.Context, string, string, int) (optimizer.Result, error) {
	f.calls++
	return optimizer.Result{}, errors.New("unreachable")
}

func newRouter(remote optimizer.Remoter) chi.Router {
	svc := optimizer.NewService(remote, optimizer.NewFallback(0, nil), nil)
	r := chi.NewRouter()
	r.Use(server.EnsureClientID)
	New(svc).RegisterRoutes(r)
	return r
}

func post(r http.Handler, clientID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.ClientIDHeader, clientID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestOptimizeFallbackPayload(t *testing.T) {
	remote := &failingRemote{}
	r := newRouter(remote)

	rec := post(r, "c1", `{"html_code":"<head></head><p>Hello</p>","focus_keyword":"running shoes","seo_score":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got Response
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ScoreBefore != 40 {
		t.Errorf("ScoreBefore = %d, want 40", got.ScoreBefore)
	}
	if got.ScoreAfter < 55 || got.ScoreAfter > 84 {
		t.Errorf("ScoreAfter = %d, want in [55,84]", got.ScoreAfter)
	}
	if !strings.Contains(got.OptimizedHTML, "<title>running shoes") {
		t.Errorf("OptimizedHTML = %q", got.OptimizedHTML)
	}
	if want := (optimizer.Result{Improvement: got.Improvement}).ImprovementLabel(); got.ImprovementLabel != want {
		t.Errorf("ImprovementLabel = %q, want %q", got.ImprovementLabel, want)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}

func TestOptimizePayloadHidesSource(t *testing.T) {
	r := newRouter(&failingRemote{})
	rec := post(r, "c1", `{"html_code":"<p>x</p>","focus_keyword":"kw","seo_score":1}`)

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"source", "reason", "fallback"} {
		if _, ok := raw[k]; ok {
			t.Errorf("payload exposes %q", k)
		}
	}
	if len(raw) != 5 {
		t.Errorf("payload keys = %v, want 5 fields", raw)
	}
}

func TestOptimizeValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty html", `{"html_code":"","focus_keyword":"kw","seo_score":10}`},
		{"missing keyword", `{"html_code":"<p>","seo_score":10}`},
		{"missing score", `{"html_code":"<p>","focus_keyword":"kw"}`},
		{"malformed", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &failingRemote{}
			rec := post(newRouter(remote), "c1", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] != optimizer.ValidationNotice {
				t.Errorf("error = %q, want %q", body["error"], optimizer.ValidationNotice)
			}
			if remote.calls != 0 {
				t.Errorf("remote called %d times on invalid input", remote.calls)
			}
		})
	}
}

func TestOptimizeInFlightGuard(t *testing.T) {
	remote := &blockingRemote{entered: make(chan struct{}, 1), release: make(chan struct{})}
	r := newRouter(remote)
	body := `{"html_code":"<p>x</p>","focus_keyword":"kw","seo_score":10}`

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- post(r, "same", body) }()

	select {
	case <-remote.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the remote")
	}

	if rec := post(r, "same", body); rec.Code != http.StatusConflict {
		t.Errorf("second request status = %d, want 409", rec.Code)
	} else if !strings.Contains(rec.Body.String(), BusyNotice) {
		t.Errorf("body = %q, want busy notice", rec.Body.String())
	}

	close(remote.release)
	if rec := <-first; rec.Code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", rec.Code)
	}

	// The guard is released once the first run completes.
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- post(r, "same", body) }()
	<-remote.entered
	if rec := <-done; rec.Code != http.StatusOK {
		t.Errorf("third request status = %d, want 200", rec.Code)
	}
}

// --- WebSocket tests ---

func dial(t *testing.T, r http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/optimize"
	header := http.Header{}
	header.Set(server.ClientIDHeader, "ws-client")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) wsResponse {
	t.Helper()
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestWebSocketOptimize(t *testing.T) {
	conn := dial(t, newRouter(nil))

	msg := `{"type":"optimize","html_code":"<head></head>","focus_keyword":"kw","seo_score":90}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if resp := readResponse(t, conn); resp.Type != "status" || resp.Status != "optimizing" {
		t.Errorf("first message = %+v, want optimizing status", resp)
	}
	resp := readResponse(t, conn)
	if resp.Type != "result" || resp.Result == nil {
		t.Fatalf("second message = %+v, want result", resp)
	}
	if resp.Result.ScoreAfter != 100 || resp.Result.ScoreBefore != 90 {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestWebSocketErrors(t *testing.T) {
	conn := dial(t, newRouter(nil))

	tests := []struct {
		msg  string
		want string
	}{
		{`not json`, "invalid message format"},
		{`{"type":"chat"}`, "unknown message type: chat"},
		{`{"type":"optimize","html_code":"<p>"}`, optimizer.ValidationNotice},
	}
	for _, tt := range tests {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
		resp := readResponse(t, conn)
		if resp.Type != "error" || resp.Error != tt.want {
			t.Errorf("message %q: got %+v, want error %q", tt.msg, resp, tt.want)
		}
	}
}

func TestAcquireRelease(t *testing.T) {
	h := New(nil)
	if !h.acquire("a") {
		t.Fatal("first acquire failed")
	}
	if h.acquire("a") {
		t.Error("second acquire for the same client succeeded")
	}
	if !h.acquire("b") {
		t.Error("other clients should not be blocked")
	}
	h.release("a")
	if !h.acquire("a") {
		t.Error("acquire after release failed")
	}
}
