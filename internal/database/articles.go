package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// ArticleExists reports whether an article with the given id is stored.
func (db *DB) ArticleExists(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow("SELECT 1 FROM articles WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertArticle inserts an article if no row with the same id or URL exists.
// Returns true if a row was inserted. Engagement flags are never written here;
// they start at their zero defaults and belong to the API layer.
func (db *DB) InsertArticle(a *Article) (bool, error) {
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return false, fmt.Errorf("encoding tags: %w", err)
	}

	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO articles
		(id, title, url, source, author, published_at, content, excerpt,
		 summary, category, priority, tags, reading_time, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.URL, a.Source, a.Author, formatTime(a.PublishedAt),
		a.Content, a.Excerpt, a.Summary, a.Category, a.Priority, string(tags),
		a.ReadingTime, formatTime(a.ExtractedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetArticles returns articles for a category, newest first.
// priority filters to one tier when not "all" or empty.
func (db *DB) GetArticles(category string, limit int, priority string) ([]Article, error) {
	query := articleColumns + " FROM articles WHERE category = ? AND is_passed = 0"
	args := []any{category}
	if priority != "" && priority != "all" {
		query += " AND priority = ?"
		args = append(args, priority)
	}
	query += " ORDER BY published_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// TodaysTopArticles returns today's articles for a category ranked by
// priority tier, then recency.
func (db *DB) TodaysTopArticles(category string, limit int) ([]Article, error) {
	rows, err := db.conn.Query(
		articleColumns+` FROM articles
		WHERE category = ? AND date(published_at) = date('now')
		ORDER BY
			CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
			published_at DESC
		LIMIT ?`, category, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticleByID returns a single article, or nil when absent.
func (db *DB) GetArticleByID(id string) (*Article, error) {
	rows, err := db.conn.Query(articleColumns+" FROM articles WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

// GetStarred returns starred articles across all categories, newest first.
func (db *DB) GetStarred(limit int) ([]Article, error) {
	rows, err := db.conn.Query(
		articleColumns+` FROM articles
		WHERE is_starred = 1 ORDER BY starred_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// MarkRead marks an article as read. Owned by the API layer.
func (db *DB) MarkRead(id string) error {
	_, err := db.conn.Exec(
		"UPDATE articles SET is_read = 1, read_at = ? WHERE id = ?",
		formatTime(time.Now()), id,
	)
	return err
}

// SetStarred stars or unstars an article. Owned by the API layer.
func (db *DB) SetStarred(id string, starred bool) error {
	var starredAt *string
	if starred {
		s := formatTime(time.Now())
		starredAt = &s
	}
	_, err := db.conn.Exec(
		"UPDATE articles SET is_starred = ?, starred_at = ? WHERE id = ?",
		boolInt(starred), starredAt, id,
	)
	return err
}

// SetPassed hides an article from listings. Owned by the API layer.
func (db *DB) SetPassed(id string, passed bool) error {
	_, err := db.conn.Exec(
		"UPDATE articles SET is_passed = ? WHERE id = ?", boolInt(passed), id,
	)
	return err
}

const articleColumns = `SELECT id, title, url, source, author, published_at,
	content, excerpt, summary, category, priority, tags, reading_time,
	extracted_at, is_read, is_starred, is_passed`

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var a Article
		var publishedAt, extractedAt string
		var content, excerpt, summary, tags sql.NullString
		var isRead, isStarred, isPassed int
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Source, &a.Author,
			&publishedAt, &content, &excerpt, &summary, &a.Category, &a.Priority,
			&tags, &a.ReadingTime, &extractedAt, &isRead, &isStarred, &isPassed); err != nil {
			return nil, err
		}
		a.PublishedAt = parseTime(publishedAt)
		a.ExtractedAt = parseTime(extractedAt)
		a.Content = content.String
		a.Excerpt = excerpt.String
		a.Summary = summary.String
		if tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &a.Tags); err != nil {
				log.Printf("Decoding tags for article %s: %v", a.ID, err)
			}
		}
		a.IsRead = isRead != 0
		a.IsStarred = isStarred != 0
		a.IsPassed = isPassed != 0
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
