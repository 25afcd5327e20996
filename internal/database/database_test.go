package database

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testArticle(id, url string) *Article {
	return &Article{
		ID:          id,
		Title:       "Test Article",
		URL:         url,
		Source:      "Test Source",
		PublishedAt: time.Now(),
		Content:     "Some content long enough to qualify as an article body.",
		Excerpt:     "Some content",
		Summary:     "News Update: Some content.",
		Category:    "ai",
		Priority:    "medium",
		Tags:        []string{"ml", "research"},
		ReadingTime: 1,
		ExtractedAt: time.Now(),
	}
}

func TestInsertArticle(t *testing.T) {
	db := openTestDB(t)
	inserted, err := db.InsertArticle(testArticle("abc123", "https://example.com/a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected article to be inserted")
	}
}

func TestInsertDuplicateArticle(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle(testArticle("abc123", "https://example.com/dup"))

	inserted, err := db.InsertArticle(testArticle("abc123", "https://example.com/dup"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Error("expected duplicate insert to be ignored")
	}
}

func TestArticleExists(t *testing.T) {
	db := openTestDB(t)

	exists, err := db.ArticleExists("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected missing article to not exist")
	}

	db.InsertArticle(testArticle("abc123", "https://example.com/a"))
	exists, _ = db.ArticleExists("abc123")
	if !exists {
		t.Error("expected inserted article to exist")
	}
}

func TestInsertNeverTouchesEngagementFlags(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle(testArticle("abc123", "https://example.com/a"))
	db.MarkRead("abc123")
	db.SetStarred("abc123", true)

	// A pipeline re-insert of the same id must not reset the flags.
	db.InsertArticle(testArticle("abc123", "https://example.com/a"))

	a, err := db.GetArticleByID("abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsRead || !a.IsStarred {
		t.Error("expected engagement flags to survive duplicate insert")
	}
}

func TestGetArticlesFiltersByPriority(t *testing.T) {
	db := openTestDB(t)

	high := testArticle("a1", "https://example.com/1")
	high.Priority = "high"
	db.InsertArticle(high)

	low := testArticle("a2", "https://example.com/2")
	low.Priority = "low"
	db.InsertArticle(low)

	all, err := db.GetArticles("ai", 50, "all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 articles, got %d", len(all))
	}

	highOnly, _ := db.GetArticles("ai", 50, "high")
	if len(highOnly) != 1 {
		t.Errorf("expected 1 high article, got %d", len(highOnly))
	}
}

func TestGetArticlesExcludesPassed(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle(testArticle("a1", "https://example.com/1"))
	db.SetPassed("a1", true)

	articles, _ := db.GetArticles("ai", 50, "all")
	if len(articles) != 0 {
		t.Errorf("expected passed article to be hidden, got %d", len(articles))
	}
}

func TestTodaysTopArticlesRanksByPriority(t *testing.T) {
	db := openTestDB(t)

	medium := testArticle("m1", "https://example.com/m")
	medium.Priority = "medium"
	db.InsertArticle(medium)

	high := testArticle("h1", "https://example.com/h")
	high.Priority = "high"
	db.InsertArticle(high)

	top, err := db.TodaysTopArticles("ai", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(top))
	}
	if top[0].Priority != "high" {
		t.Errorf("expected high priority first, got %q", top[0].Priority)
	}
}

func TestTagsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("a1", "https://example.com/1")
	a.Tags = []string{"fed", "market", "inflation"}
	db.InsertArticle(a)

	got, _ := db.GetArticleByID("a1")
	if len(got.Tags) != 3 || got.Tags[0] != "fed" {
		t.Errorf("expected tags to round-trip in order, got %v", got.Tags)
	}
}

func TestCorruptTagsColumnTolerated(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle(testArticle("a1", "https://example.com/1"))

	if _, err := db.conn.Exec("UPDATE articles SET tags = 'not-json' WHERE id = 'a1'"); err != nil {
		t.Fatalf("corrupting tags column: %v", err)
	}

	got, err := db.GetArticleByID("a1")
	if err != nil {
		t.Fatalf("a corrupt tags column must not fail the read: %v", err)
	}
	if got == nil {
		t.Fatal("expected the article back")
	}
	if got.Tags != nil {
		t.Errorf("expected no tags from a corrupt column, got %v", got.Tags)
	}
}

func TestStarUnstar(t *testing.T) {
	db := openTestDB(t)
	db.InsertArticle(testArticle("a1", "https://example.com/1"))

	db.SetStarred("a1", true)
	starred, _ := db.GetStarred(10)
	if len(starred) != 1 {
		t.Fatalf("expected 1 starred, got %d", len(starred))
	}

	db.SetStarred("a1", false)
	starred, _ = db.GetStarred(10)
	if len(starred) != 0 {
		t.Errorf("expected 0 starred after unstar, got %d", len(starred))
	}
}

func TestAppendRunStat(t *testing.T) {
	db := openTestDB(t)
	if err := db.AppendRunStat("finance", 12, "success"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.AppendRunStat("finance", 0, "error: network unreachable"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Append-only log, newest first.
	if !strings.HasPrefix(runs[0].Status, "error") {
		t.Errorf("expected newest run first, got status %q", runs[0].Status)
	}
}

func TestDailyOverviewUpsertReplaces(t *testing.T) {
	db := openTestDB(t)
	date := Today()

	db.UpsertDailyOverview(date, "first version", 5, 1)
	db.UpsertDailyOverview(date, "second version", 8, 2)

	o, err := db.GetDailyOverview(date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o == nil {
		t.Fatal("expected overview")
	}
	if o.OverviewText != "second version" {
		t.Errorf("expected replacement, got %q", o.OverviewText)
	}
	if o.TotalArticles != 8 || o.HighPriorityCount != 2 {
		t.Errorf("expected counts 8/2, got %d/%d", o.TotalArticles, o.HighPriorityCount)
	}
}

func TestGetDailyOverviewMissing(t *testing.T) {
	db := openTestDB(t)
	o, err := db.GetDailyOverview("1999-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o != nil {
		t.Error("expected nil for missing overview")
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalArticles != 0 {
		t.Errorf("expected 0 articles, got %d", stats.TotalArticles)
	}

	high := testArticle("h1", "https://example.com/h")
	high.Priority = "high"
	db.InsertArticle(high)
	db.AppendRunStat("ai", 1, "success")

	stats, _ = db.GetStats()
	if stats.TotalArticles != 1 {
		t.Errorf("expected 1 article, got %d", stats.TotalArticles)
	}
	if stats.HighPriority != 1 {
		t.Errorf("expected 1 high priority, got %d", stats.HighPriority)
	}
	if stats.CategoryCounts["ai"] != 1 {
		t.Errorf("expected 1 ai article, got %d", stats.CategoryCounts["ai"])
	}
	if stats.CollectionRuns != 1 {
		t.Errorf("expected 1 run, got %d", stats.CollectionRuns)
	}
	if stats.LastRunAt == nil {
		t.Error("expected last run timestamp")
	}
}

func TestMigrateNewDB(t *testing.T) {
	db := openTestDB(t)

	version, err := getSchemaVersion(db.conn)
	if err != nil {
		t.Fatalf("getSchemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestToday(t *testing.T) {
	today := Today()
	if len(today) != 10 || today[4] != '-' || today[7] != '-' {
		t.Errorf("expected YYYY-MM-DD format, got %q", today)
	}
}
