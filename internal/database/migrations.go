package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    url TEXT UNIQUE NOT NULL,
    source TEXT NOT NULL,
    author TEXT,
    published_at TEXT NOT NULL,
    content TEXT,
    excerpt TEXT,
    summary TEXT,
    category TEXT NOT NULL,
    priority TEXT NOT NULL,
    tags TEXT,
    reading_time INTEGER DEFAULT 1,
    extracted_at TEXT NOT NULL,
    is_read INTEGER DEFAULT 0,
    is_starred INTEGER DEFAULT 0,
    is_passed INTEGER DEFAULT 0,
    read_at TEXT,
    starred_at TEXT
);

CREATE TABLE IF NOT EXISTS collection_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    articles_collected INTEGER DEFAULT 0,
    ran_at TEXT DEFAULT (datetime('now')),
    status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_overviews (
    date TEXT PRIMARY KEY,
    overview_text TEXT NOT NULL,
    total_articles INTEGER DEFAULT 0,
    high_priority_count INTEGER DEFAULT 0,
    generated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
CREATE INDEX IF NOT EXISTS idx_articles_priority ON articles(priority);
CREATE INDEX IF NOT EXISTS idx_articles_read_starred ON articles(is_read, is_starred);
CREATE INDEX IF NOT EXISTS idx_runs_category ON collection_runs(category);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
