package database

import "time"

// Article is the canonical persisted record after triage.
// The pipeline only ever inserts articles; the engagement flags
// (IsRead, IsStarred, IsPassed) are owned by the API layer.
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      string
	Author      *string
	PublishedAt time.Time
	Content     string
	Excerpt     string
	Summary     string
	Category    string
	Priority    string // high | medium | low
	Tags        []string
	ReadingTime int // minutes, 1..15
	ExtractedAt time.Time
	IsRead      bool
	IsStarred   bool
	IsPassed    bool
}

// CollectionRun is one append-only log record per category per tick.
type CollectionRun struct {
	ID                int64
	Category          string
	ArticlesCollected int
	RanAt             time.Time
	Status            string
}

// DailyOverview is the cross-category narrative for one calendar day.
type DailyOverview struct {
	Date              string // YYYY-MM-DD
	OverviewText      string
	TotalArticles     int
	HighPriorityCount int
	GeneratedAt       time.Time
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles     int
	HighPriority      int
	StarredArticles   int
	UnreadArticles    int
	CategoryCounts    map[string]int
	CollectionRuns    int
	LastRunAt         *time.Time
	DaysWithOverviews int
}
