package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RyanPaul06/RPNews/internal/config"
	"github.com/RyanPaul06/RPNews/internal/database"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type articleJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Author      *string  `json:"author"`
	PublishedAt string   `json:"published_at"`
	Excerpt     string   `json:"excerpt"`
	Summary     string   `json:"summary"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"reading_time"`
	IsRead      bool     `json:"is_read"`
	IsStarred   bool     `json:"is_starred"`
}

func toArticleJSON(a database.Article) articleJSON {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleJSON{
		ID:          a.ID,
		Title:       a.Title,
		URL:         a.URL,
		Source:      a.Source,
		Author:      a.Author,
		PublishedAt: a.PublishedAt.Format(time.RFC3339),
		Excerpt:     a.Excerpt,
		Summary:     a.Summary,
		Category:    a.Category,
		Priority:    a.Priority,
		Tags:        tags,
		ReadingTime: a.ReadingTime,
		IsRead:      a.IsRead,
		IsStarred:   a.IsStarred,
	}
}

func toArticleList(articles []database.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleJSON(a))
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleBriefing returns today's overview plus the top articles per
// category, the daily entry point for a client.
func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	overview, err := s.db.GetDailyOverview(database.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	byCategory := make(map[string][]articleJSON, len(config.Categories))
	for _, category := range config.Categories {
		articles, err := s.db.TodaysTopArticles(category, 5)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		byCategory[category] = toArticleList(articles)
	}

	resp := map[string]any{
		"date":     database.Today(),
		"articles": byCategory,
	}
	if overview != nil {
		resp["overview"] = overview.OverviewText
		resp["total_articles"] = overview.TotalArticles
		resp["high_priority_count"] = overview.HighPriorityCount
		resp["generated_at"] = overview.GeneratedAt.Format(time.RFC3339)
	} else {
		resp["overview"] = ""
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleArticles serves both the per-category listing and the
// engagement actions:
//
//	GET  /api/articles/{category}?limit=&priority=
//	POST /api/articles/{id}/read
//	POST /api/articles/{id}/star
//	POST /api/articles/{id}/pass
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/articles/")
	parts := strings.SplitN(rest, "/", 2)

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleArticleAction(w, parts[0], parts[1])
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.handleArticleList(w, r, parts[0])
}

func (s *Server) handleArticleList(w http.ResponseWriter, r *http.Request, category string) {
	if !validCategory(category) {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	priority := r.URL.Query().Get("priority")
	if priority != "" && priority != "all" && !validPriority(priority) {
		writeError(w, http.StatusBadRequest, "invalid priority filter")
		return
	}

	articles, err := s.db.GetArticles(category, limit, priority)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"articles": toArticleList(articles),
	})
}

func (s *Server) handleArticleAction(w http.ResponseWriter, id, action string) {
	article, err := s.db.GetArticleByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	switch action {
	case "read":
		err = s.db.MarkRead(id)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_read": true})
			return
		}
	case "star":
		starred := !article.IsStarred
		err = s.db.SetStarred(id, starred)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_starred": starred})
			return
		}
	case "pass":
		err = s.db.SetPassed(id, true)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_passed": true})
			return
		}
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleStarred(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > maxListLimit {
		limit = 50
	}

	articles, err := s.db.GetStarred(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": toArticleList(articles)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{
		"total_articles":      stats.TotalArticles,
		"high_priority":       stats.HighPriority,
		"starred_articles":    stats.StarredArticles,
		"unread_articles":     stats.UnreadArticles,
		"category_counts":     stats.CategoryCounts,
		"collection_runs":     stats.CollectionRuns,
		"days_with_overviews": stats.DaysWithOverviews,
	}
	if stats.LastRunAt != nil {
		resp["last_run_at"] = stats.LastRunAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCollect kicks off a collection cycle in the background and
// returns immediately. Overlapping triggers are absorbed by the engine.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.collector == nil {
		writeError(w, http.StatusServiceUnavailable, "collection not available")
		return
	}

	go func() {
		count, err := s.collector.CollectAll(context.Background())
		if err != nil {
			log.Printf("Triggered collection failed: %v", err)
			return
		}
		log.Printf("Triggered collection complete: %d new articles", count)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func validCategory(name string) bool {
	for _, c := range config.Categories {
		if c == name {
			return true
		}
	}
	return false
}

func validPriority(p string) bool {
	return p == "high" || p == "medium" || p == "low"
}
