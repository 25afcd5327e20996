package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RyanPaul06/RPNews/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServer(t *testing.T, db *database.DB, c Collector) *Server {
	t.Helper()
	srv, err := New(db, c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func seedArticle(t *testing.T, db *database.DB, id, category, priority string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.InsertArticle(&database.Article{
		ID:          id,
		Title:       "Article " + id,
		URL:         "http://example.com/" + id,
		Source:      "Test Wire",
		PublishedAt: now,
		Content:     "Some article content long enough to pass the minimum length check.",
		Excerpt:     "Some article content.",
		Summary:     "A summary.",
		Category:    category,
		Priority:    priority,
		Tags:        []string{"market"},
		ReadingTime: 1,
		ExtractedAt: now,
	})
	if err != nil {
		t.Fatalf("seeding article %s: %v", id, err)
	}
}

func do(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthRoute(t *testing.T) {
	srv := newTestServer(t, openTestDB(t), nil)
	rec := do(t, srv, "GET", "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestDashboardRoute(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertDailyOverview(database.Today(), "**Markets** moved today.", 3, 1); err != nil {
		t.Fatalf("seeding overview: %v", err)
	}
	seedArticle(t, db, "d1", "finance", "high")

	srv := newTestServer(t, db, nil)
	rec := do(t, srv, "GET", "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>Markets</strong>") {
		t.Error("expected markdown-rendered overview in dashboard")
	}
	if !strings.Contains(rec.Body.String(), "Article d1") {
		t.Error("expected seeded article in dashboard")
	}
}

func TestBriefingRoute(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertDailyOverview(database.Today(), "Quiet day.", 2, 0); err != nil {
		t.Fatalf("seeding overview: %v", err)
	}
	seedArticle(t, db, "b1", "ai", "high")

	srv := newTestServer(t, db, nil)
	rec := do(t, srv, "GET", "/api/briefing")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decode(t, rec)
	if body["overview"] != "Quiet day." {
		t.Errorf("overview = %v", body["overview"])
	}
	articles, ok := body["articles"].(map[string]any)
	if !ok {
		t.Fatalf("articles has unexpected shape: %T", body["articles"])
	}
	ai, ok := articles["ai"].([]any)
	if !ok || len(ai) != 1 {
		t.Errorf("expected 1 ai article, got %v", articles["ai"])
	}
}

func TestArticleListRoute(t *testing.T) {
	db := openTestDB(t)
	seedArticle(t, db, "l1", "finance", "high")
	seedArticle(t, db, "l2", "finance", "low")
	seedArticle(t, db, "l3", "ai", "high")

	srv := newTestServer(t, db, nil)

	rec := do(t, srv, "GET", "/api/articles/finance")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if got := len(body["articles"].([]any)); got != 2 {
		t.Errorf("finance articles = %d, want 2", got)
	}

	rec = do(t, srv, "GET", "/api/articles/finance?priority=high")
	if got := len(decode(t, rec)["articles"].([]any)); got != 1 {
		t.Errorf("high-priority finance articles = %d, want 1", got)
	}

	rec = do(t, srv, "GET", "/api/articles/sports")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown category: expected 404, got %d", rec.Code)
	}

	rec = do(t, srv, "GET", "/api/articles/finance?priority=urgent")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad priority: expected 400, got %d", rec.Code)
	}
}

func TestArticleActions(t *testing.T) {
	db := openTestDB(t)
	seedArticle(t, db, "a1", "politics", "medium")

	srv := newTestServer(t, db, nil)

	rec := do(t, srv, "POST", "/api/articles/a1/read")
	if rec.Code != http.StatusOK {
		t.Fatalf("read: expected 200, got %d", rec.Code)
	}

	rec = do(t, srv, "POST", "/api/articles/a1/star")
	if rec.Code != http.StatusOK {
		t.Fatalf("star: expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["is_starred"] != true {
		t.Errorf("first star toggle = %v, want true", body["is_starred"])
	}

	rec = do(t, srv, "POST", "/api/articles/a1/star")
	if body := decode(t, rec); body["is_starred"] != false {
		t.Errorf("second star toggle = %v, want false", body["is_starred"])
	}

	rec = do(t, srv, "POST", "/api/articles/a1/pass")
	if rec.Code != http.StatusOK {
		t.Fatalf("pass: expected 200, got %d", rec.Code)
	}
	rec = do(t, srv, "GET", "/api/articles/politics")
	if got := len(decode(t, rec)["articles"].([]any)); got != 0 {
		t.Errorf("passed article still listed: %d", got)
	}

	rec = do(t, srv, "POST", "/api/articles/missing/read")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing article: expected 404, got %d", rec.Code)
	}
	rec = do(t, srv, "POST", "/api/articles/a1/archive")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown action: expected 404, got %d", rec.Code)
	}
	rec = do(t, srv, "GET", "/api/articles/a1/read")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET action: expected 405, got %d", rec.Code)
	}
}

func TestStarredRoute(t *testing.T) {
	db := openTestDB(t)
	seedArticle(t, db, "s1", "ai", "high")
	if err := db.SetStarred("s1", true); err != nil {
		t.Fatalf("starring: %v", err)
	}

	srv := newTestServer(t, db, nil)
	rec := do(t, srv, "GET", "/api/starred")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(decode(t, rec)["articles"].([]any)); got != 1 {
		t.Errorf("starred articles = %d, want 1", got)
	}
}

func TestStatsRoute(t *testing.T) {
	db := openTestDB(t)
	seedArticle(t, db, "st1", "finance", "high")

	srv := newTestServer(t, db, nil)
	rec := do(t, srv, "GET", "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["total_articles"] != float64(1) {
		t.Errorf("total_articles = %v, want 1", body["total_articles"])
	}
}

type fakeCollector struct {
	called chan struct{}
}

func (f *fakeCollector) CollectAll(ctx context.Context) (int, error) {
	close(f.called)
	return 0, nil
}

func TestCollectRoute(t *testing.T) {
	db := openTestDB(t)
	collector := &fakeCollector{called: make(chan struct{})}
	srv := newTestServer(t, db, collector)

	rec := do(t, srv, "POST", "/api/collect")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	select {
	case <-collector.called:
	case <-time.After(2 * time.Second):
		t.Fatal("collector was not triggered")
	}

	rec = do(t, srv, "GET", "/api/collect")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET collect: expected 405, got %d", rec.Code)
	}
}

func TestCollectRouteWithoutCollector(t *testing.T) {
	srv := newTestServer(t, openTestDB(t), nil)
	rec := do(t, srv, "POST", "/api/collect")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
