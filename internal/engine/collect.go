package engine

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/RyanPaul06/RPNews/internal/collect"
	"github.com/RyanPaul06/RPNews/internal/config"
	"github.com/RyanPaul06/RPNews/internal/database"
	"github.com/RyanPaul06/RPNews/internal/summarize"
	"github.com/RyanPaul06/RPNews/internal/triage"
)

// CollectAll runs one full collection cycle across all categories and
// returns the number of newly stored articles. Categories run
// concurrently; a panic anywhere in the cycle is recovered here so the
// scheduler survives.
func (e *Engine) CollectAll(ctx context.Context) (count int, err error) {
	if !e.running.CompareAndSwap(false, true) {
		return 0, ErrAlreadyRunning
	}
	defer e.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection cycle panicked: %v", r)
		}
	}()

	log.Println("Starting collection cycle")

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	var firstErr error

	for _, category := range config.Categories {
		sources := e.cfg.Sources[category]
		if len(sources) == 0 {
			continue
		}
		wg.Add(1)
		go func(category string, sources []config.Source) {
			defer wg.Done()
			n, err := e.collectCategory(ctx, category, sources)

			status := "success"
			if err != nil {
				status = "error"
			}
			if statErr := e.db.AppendRunStat(category, n, status); statErr != nil {
				log.Printf("Recording run stats for %s: %v", category, statErr)
			}

			mu.Lock()
			total += n
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}(category, sources)
	}
	wg.Wait()

	// The overview pass runs even when a category failed: the articles
	// that did land should still be reflected in today's row.
	if err := e.regenerateOverview(ctx); err != nil {
		log.Printf("Regenerating daily overview: %v", err)
	}
	return total, firstErr
}

// collectCategory fetches every source in one category through a
// bounded worker pool, pausing between dispatches to stay polite.
// Per-source fetch and parse failures are soft: logged, skipped, never
// fatal to the cycle.
func (e *Engine) collectCategory(ctx context.Context, category string, sources []config.Source) (int, error) {
	workers := e.cfg.Engine.FetchWorkers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	var firstErr error

	for i, source := range sources {
		if i > 0 && e.cfg.SourceDelay() > 0 {
			select {
			case <-ctx.Done():
				wg.Wait()
				return total, ctx.Err()
			case <-time.After(e.cfg.SourceDelay()):
			}
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(source config.Source) {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := e.collectSource(ctx, category, source)
			mu.Lock()
			total += n
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	log.Printf("Collected %d new articles for %s", total, category)
	return total, firstErr
}

// collectSource fetches and processes one feed. Entries are processed
// sequentially; a storage failure drops that entry's write and the
// rest of the feed continues.
func (e *Engine) collectSource(ctx context.Context, category string, source config.Source) (int, error) {
	raw, err := e.fetcher.Fetch(ctx, source)
	if err != nil {
		log.Printf("Skipping source: %v", err)
		return 0, nil
	}

	entries, err := collect.ParseFeed(raw, source.Name, e.cfg.Engine.MaxEntriesPerFeed)
	if err != nil {
		log.Printf("Skipping source %s: %v", source.Name, err)
		return 0, nil
	}

	count := 0
	for _, entry := range entries {
		inserted, err := e.processEntry(ctx, entry, category, source)
		if err != nil {
			log.Printf("Dropping %q from %s: %v", entry.Title, source.Name, err)
			continue
		}
		if inserted {
			count++
		}
	}
	return count, nil
}

// processEntry runs one feed entry through the full pipeline:
// dedup, sanitation, staleness check, triage, summarization, storage.
func (e *Engine) processEntry(ctx context.Context, entry collect.RawEntry, category string, source config.Source) (bool, error) {
	id := articleID(entry.Link)

	exists, err := e.db.ArticleExists(id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	content := collect.CleanText(entry.Content)
	if len(content) < collect.MinContentLength && e.content != nil {
		if full := e.content.FetchFullContent(ctx, entry.Link); full != "" {
			content = full
		}
	}
	if len(content) < collect.MinContentLength {
		log.Printf("Skipping %q from %s: content too short", entry.Title, source.Name)
		return false, nil
	}

	now := time.Now().UTC()
	published := now
	if entry.PublishedAt != nil {
		published = entry.PublishedAt.UTC()
	}
	maxAge := time.Duration(e.cfg.Engine.MaxArticleAgeDays) * 24 * time.Hour
	if maxAge > 0 && now.Sub(published) > maxAge {
		return false, nil
	}

	article := &database.Article{
		ID:          id,
		Title:       entry.Title,
		URL:         entry.Link,
		Source:      source.Name,
		Author:      entry.Author,
		PublishedAt: published,
		Content:     content,
		Excerpt:     collect.Excerpt(content),
		Summary:     e.summ.Summary(ctx, entry.Title, content, category),
		Category:    category,
		Priority:    triage.Priority(entry.Title, content, source.Priority, category),
		Tags:        triage.Tags(entry.Title, content, category),
		ReadingTime: triage.ReadingTime(content),
		ExtractedAt: now,
	}

	return e.db.InsertArticle(article)
}

// RefreshOverview rebuilds today's overview on demand, outside the
// normal end-of-cycle regeneration.
func (e *Engine) RefreshOverview(ctx context.Context) error {
	return e.regenerateOverview(ctx)
}

// regenerateOverview rebuilds today's overview row from today's top
// articles across all categories.
func (e *Engine) regenerateOverview(ctx context.Context) error {
	byCategory := make(map[string][]summarize.OverviewArticle)
	total := 0
	high := 0

	for _, category := range config.Categories {
		articles, err := e.db.TodaysTopArticles(category, 50)
		if err != nil {
			return err
		}
		for _, a := range articles {
			byCategory[category] = append(byCategory[category], summarize.OverviewArticle{
				Title:    a.Title,
				Summary:  a.Summary,
				Priority: a.Priority,
			})
			total++
			if a.Priority == triage.PriorityHigh {
				high++
			}
		}
	}

	text := e.summ.DailyOverview(ctx, byCategory)
	return e.db.UpsertDailyOverview(database.Today(), text, total, high)
}

// articleID derives the stable article id from its canonical link.
func articleID(link string) string {
	sum := md5.Sum([]byte(link))
	return hex.EncodeToString(sum[:])
}
