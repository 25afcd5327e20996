// Package server exposes the JSON API and the dashboard page.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/RyanPaul06/RPNews/internal/config"
	"github.com/RyanPaul06/RPNews/internal/database"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New()

// Collector triggers a collection cycle. Satisfied by engine.Engine;
// nil disables the trigger endpoint.
type Collector interface {
	CollectAll(ctx context.Context) (int, error)
}

// Server serves the triage API and dashboard.
type Server struct {
	db        *database.DB
	collector Collector
	dashboard *template.Template
	mux       *http.ServeMux
}

// New creates a server. collector may be nil for read-only deployments.
func New(db *database.DB, collector Collector) (*Server, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard template: %w", err)
	}

	s := &Server{db: db, collector: collector, dashboard: tmpl, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/briefing", s.handleBriefing)
	s.mux.HandleFunc("/api/articles/", s.handleArticles)
	s.mux.HandleFunc("/api/starred", s.handleStarred)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.HandleFunc("/api/collect", s.handleCollect)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	overview, err := s.db.GetDailyOverview(database.Today())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sections := make([]dashboardSection, 0, len(config.Categories))
	for _, category := range config.Categories {
		articles, err := s.db.TodaysTopArticles(category, 5)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		sections = append(sections, dashboardSection{Category: category, Articles: articles})
	}

	data := map[string]any{
		"Date":     database.Today(),
		"Overview": overview,
		"Sections": sections,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dashboard.Execute(w, data); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
	}
}

type dashboardSection struct {
	Category string
	Articles []database.Article
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
