// Package engine runs the periodic collection cycle: fetch every
// configured feed, triage new entries, persist them, and refresh the
// daily overview.
package engine

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/RyanPaul06/RPNews/internal/collect"
	"github.com/RyanPaul06/RPNews/internal/config"
	"github.com/RyanPaul06/RPNews/internal/database"
	"github.com/RyanPaul06/RPNews/internal/summarize"
)

// ErrAlreadyRunning is returned when a collection cycle is requested
// while another one is still in flight.
var ErrAlreadyRunning = errors.New("collection already in progress")

// startupDelay is how long after Start the first cycle begins.
const startupDelay = 5 * time.Second

// Store is the persistence surface the engine writes through.
// Satisfied by *database.DB.
type Store interface {
	ArticleExists(id string) (bool, error)
	InsertArticle(a *database.Article) (bool, error)
	AppendRunStat(category string, articlesCollected int, status string) error
	TodaysTopArticles(category string, limit int) ([]database.Article, error)
	UpsertDailyOverview(date, overviewText string, totalArticles, highPriorityCount int) error
}

// Engine owns the collection schedule. Cycles never overlap: a tick or
// manual trigger that arrives mid-cycle is rejected, not queued.
type Engine struct {
	cfg     *config.Config
	db      Store
	fetcher *collect.Fetcher
	content *collect.ContentFetcher
	summ    *summarize.Summarizer

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates an engine. The content fetcher is only wired when full
// content fetching is enabled in config.
func New(cfg *config.Config, db Store, summ *summarize.Summarizer) *Engine {
	e := &Engine{
		cfg:     cfg,
		db:      db,
		fetcher: collect.NewFetcher(cfg.FetchTimeout()),
		summ:    summ,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cfg.Engine.FetchFullContent {
		e.content = collect.NewContentFetcher(cfg.FetchTimeout())
	}
	return e
}

// Start launches the scheduler goroutine. The first cycle runs shortly
// after startup; subsequent cycles follow the configured interval, with
// a shorter backoff after a failed cycle.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
	log.Printf("Engine started: collecting every %s", e.cfg.TickInterval())
}

// Stop signals the scheduler to exit and waits for it. A cycle already
// in flight finishes on its own; Stop does not interrupt it.
func (e *Engine) Stop() {
	close(e.stop)
	<-e.done
	log.Println("Engine stopped")
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	timer := time.NewTimer(startupDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-timer.C:
		}

		count, err := e.CollectAll(ctx)
		switch {
		case errors.Is(err, ErrAlreadyRunning):
			log.Println("Collection already in progress, skipping tick")
		case err != nil:
			log.Printf("Collection cycle failed: %v", err)
		default:
			log.Printf("Collection cycle complete: %d new articles", count)
		}
		timer.Reset(e.nextDelay(err))
	}
}

// nextDelay picks the wait before the next cycle. A tick that found a
// cycle already in flight is a skip, not a failure, and keeps the
// normal interval.
func (e *Engine) nextDelay(err error) time.Duration {
	if err != nil && !errors.Is(err, ErrAlreadyRunning) {
		return e.cfg.ErrorBackoff()
	}
	return e.cfg.TickInterval()
}
