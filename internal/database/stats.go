package database

// AppendRunStat appends one collection-run log record. The log is
// append-only observability data; the pipeline never reads it back.
func (db *DB) AppendRunStat(category string, articlesCollected int, status string) error {
	_, err := db.conn.Exec(
		`INSERT INTO collection_runs (category, articles_collected, ran_at, status)
		VALUES (?, ?, datetime('now'), ?)`,
		category, articlesCollected, status,
	)
	return err
}

// RecentRuns returns the most recent collection runs, newest first.
func (db *DB) RecentRuns(limit int) ([]CollectionRun, error) {
	rows, err := db.conn.Query(
		`SELECT id, category, articles_collected, ran_at, status
		FROM collection_runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []CollectionRun
	for rows.Next() {
		var r CollectionRun
		var ranAt string
		if err := rows.Scan(&r.ID, &r.Category, &r.ArticlesCollected, &ranAt, &r.Status); err != nil {
			return nil, err
		}
		r.RanAt = parseSQLiteTime(ranAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats returns aggregate statistics for the status command and API.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{CategoryCounts: make(map[string]int)}

	row := db.conn.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(is_starred), 0),
		COALESCE(SUM(CASE WHEN is_read = 0 THEN 1 ELSE 0 END), 0)
		FROM articles`)
	if err := row.Scan(&s.TotalArticles, &s.HighPriority, &s.StarredArticles, &s.UnreadArticles); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query("SELECT category, COUNT(*) FROM articles GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		s.CategoryCounts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.conn.QueryRow("SELECT COUNT(*) FROM collection_runs").Scan(&s.CollectionRuns); err != nil {
		return nil, err
	}

	var lastRun *string
	if err := db.conn.QueryRow("SELECT MAX(ran_at) FROM collection_runs").Scan(&lastRun); err != nil {
		return nil, err
	}
	if lastRun != nil {
		t := parseSQLiteTime(*lastRun)
		s.LastRunAt = &t
	}

	if err := db.conn.QueryRow("SELECT COUNT(*) FROM daily_overviews").Scan(&s.DaysWithOverviews); err != nil {
		return nil, err
	}

	return s, nil
}
