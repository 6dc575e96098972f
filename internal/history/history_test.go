package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blogseo/blogseo/internal/db"
	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/go-chi/chi/v5"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func insertRun(t *testing.T, store *Store, run Run) {
	t.Helper()
	if err := store.Insert(context.Background(), &run); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestRecordAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := optimizer.WithClientID(context.Background(), "client-1")

	req := optimizer.NewRequest("<head></head>", "running shoes", 40)
	out := optimizer.Outcome{
		Result:       optimizer.Result{ScoreBefore: 40, ScoreAfter: 71, Improvement: 31, OptimizedHTML: "<head>x</head>"},
		Source:       optimizer.SourceFallback,
		Reason:       &optimizer.StatusError{Code: 500},
		AppliedRules: []string{optimizer.RuleTitle, optimizer.RuleMetaDescription},
		Duration:     2 * time.Second,
	}
	if err := store.Record(ctx, req, out); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got, err := store.GetByID(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Source != "fallback" {
		t.Errorf("Source = %q, want %q", got.Source, "fallback")
	}
	if got.Reason != "API Error: 500" {
		t.Errorf("Reason = %q, want %q", got.Reason, "API Error: 500")
	}
	if got.FocusKeyword != "running shoes" {
		t.Errorf("FocusKeyword = %q, want %q", got.FocusKeyword, "running shoes")
	}
	if got.HTMLBytes != len("<head></head>") {
		t.Errorf("HTMLBytes = %d, want %d", got.HTMLBytes, len("<head></head>"))
	}
	if got.ScoreBefore != 40 || got.ScoreAfter != 71 || got.Improvement != 31 {
		t.Errorf("scores = %d/%d/%d, want 40/71/31", got.ScoreBefore, got.ScoreAfter, got.Improvement)
	}
	if got.DurationMS != 2000 {
		t.Errorf("DurationMS = %d, want 2000", got.DurationMS)
	}
	if got.ClientID != "client-1" {
		t.Errorf("ClientID = %q, want %q", got.ClientID, "client-1")
	}
	if len(got.AppliedRules) != 2 || got.AppliedRules[0] != optimizer.RuleTitle {
		t.Errorf("AppliedRules = %v", got.AppliedRules)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestRecordRemoteHasNoReason(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Record(ctx, optimizer.NewRequest("<p>a</p>", "kw", 10), optimizer.Outcome{
		Result: optimizer.Result{ScoreBefore: 10, ScoreAfter: 30, Improvement: 20},
		Source: optimizer.SourceRemote,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Query(ctx, QueryFilter{Source: "remote"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 remote run, got %d", len(runs))
	}
	if runs[0].Reason != "" {
		t.Errorf("Reason = %q, want empty", runs[0].Reason)
	}
	if runs[0].AppliedRules == nil || len(runs[0].AppliedRules) != 0 {
		t.Errorf("AppliedRules = %v, want empty list", runs[0].AppliedRules)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	insertRun(t, store, Run{Source: "remote", FocusKeyword: "running shoes", ClientID: "a"})
	insertRun(t, store, Run{Source: "fallback", FocusKeyword: "trail shoes", ClientID: "b"})
	insertRun(t, store, Run{Source: "fallback", FocusKeyword: "blog seo", ClientID: "a"})

	tests := []struct {
		name   string
		filter QueryFilter
		want   int
	}{
		{"all", QueryFilter{}, 3},
		{"by source", QueryFilter{Source: "fallback"}, 2},
		{"by keyword substring", QueryFilter{Keyword: "shoes"}, 2},
		{"by client", QueryFilter{ClientID: "a"}, 2},
		{"combined", QueryFilter{Source: "fallback", ClientID: "a"}, 1},
		{"limit", QueryFilter{Limit: 1}, 1},
		{"offset without limit", QueryFilter{Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(runs) != tt.want {
				t.Errorf("got %d runs, want %d", len(runs), tt.want)
			}
		})
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	insertRun(t, store, Run{ID: "old", Source: "remote", FocusKeyword: "kw", CreatedAt: now.Add(-time.Hour)})
	insertRun(t, store, Run{ID: "new", Source: "remote", FocusKeyword: "kw", CreatedAt: now})

	runs, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" {
		t.Errorf("expected newest first, got %+v", runs)
	}

	since := now.Add(-time.Minute)
	runs, err = store.Query(ctx, QueryFilter{Since: &since})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "new" {
		t.Errorf("since filter returned %+v", runs)
	}
}

func TestStats(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st != (Stats{}) {
		t.Errorf("empty stats = %+v", st)
	}

	insertRun(t, store, Run{Source: "remote", FocusKeyword: "kw", Improvement: 10})
	insertRun(t, store, Run{Source: "fallback", FocusKeyword: "kw", Improvement: 20})
	insertRun(t, store, Run{Source: "fallback", FocusKeyword: "kw", Improvement: 30})

	st, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Total: 3, Remote: 1, Fallback: 2, AverageImprovement: 20}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		insertRun(t, store, Run{Source: "fallback", FocusKeyword: "kw"})
	}

	// Delete runs before far in the future (should delete all).
	deleted, err := store.DeleteBefore(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetByID(context.Background(), "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent ID, got nil")
	}
}

func TestServiceRecordsIntoStore(t *testing.T) {
	store := setupStore(t)
	svc := optimizer.NewService(nil, optimizer.NewFallback(0, nil), store)

	svc.Optimize(context.Background(), optimizer.NewRequest("<head></head><p>x</p>", "kw", 50))

	st, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 1 || st.Fallback != 1 {
		t.Errorf("Stats = %+v, want one fallback run", st)
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPGetByID(t *testing.T) {
	r, store := setupRouter(t)
	insertRun(t, store, Run{ID: "http-1", Source: "remote", FocusKeyword: "kw", ScoreAfter: 88})

	req := httptest.NewRequest(http.MethodGet, "/api/history/http-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got Run
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "http-1" || got.ScoreAfter != 88 {
		t.Errorf("got %+v", got)
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPQueryWithFilter(t *testing.T) {
	r, store := setupRouter(t)
	insertRun(t, store, Run{Source: "remote", FocusKeyword: "kw"})
	insertRun(t, store, Run{Source: "fallback", FocusKeyword: "kw"})

	req := httptest.NewRequest(http.MethodGet, "/api/history?source=fallback&limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var runs []Run
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 1 || runs[0].Source != "fallback" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestHTTPQueryEmptyIsArray(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestHTTPStats(t *testing.T) {
	r, store := setupRouter(t)
	insertRun(t, store, Run{Source: "remote", FocusKeyword: "kw", Improvement: 4})

	req := httptest.NewRequest(http.MethodGet, "/api/history/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var st Stats
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Total != 1 || st.Remote != 1 || st.AverageImprovement != 4 {
		t.Errorf("Stats = %+v", st)
	}
}

var _ optimizer.Recorder = (*Store)(nil)

func TestRecordRejectsUnknownSource(t *testing.T) {
	store := setupStore(t)
	err := store.Record(context.Background(), optimizer.NewRequest("x", "kw", 1), optimizer.Outcome{Source: "cached"})
	if err == nil || errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped insert error, got %v", err)
	}
}
