package database

import "database/sql"

// UpsertDailyOverview replaces the overview row for a calendar day.
// One row per date; regeneration overwrites, never appends.
func (db *DB) UpsertDailyOverview(date, overviewText string, totalArticles, highPriorityCount int) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO daily_overviews
		(date, overview_text, total_articles, high_priority_count, generated_at)
		VALUES (?, ?, ?, ?, datetime('now'))`,
		date, overviewText, totalArticles, highPriorityCount,
	)
	return err
}

// GetDailyOverview returns the overview for a date, or nil when absent.
func (db *DB) GetDailyOverview(date string) (*DailyOverview, error) {
	row := db.conn.QueryRow(
		`SELECT date, overview_text, total_articles, high_priority_count, generated_at
		FROM daily_overviews WHERE date = ?`, date,
	)

	var o DailyOverview
	var generatedAt string
	err := row.Scan(&o.Date, &o.OverviewText, &o.TotalArticles, &o.HighPriorityCount, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.GeneratedAt = parseSQLiteTime(generatedAt)
	return &o, nil
}
