package summarize

import (
	"context"
	"testing"
)

func TestDailyOverviewRuleBased(t *testing.T) {
	s := New()
	byCategory := map[string][]OverviewArticle{
		"ai": {
			{Title: "Model launch", Summary: "A launch.", Priority: "high"},
			{Title: "Research note", Summary: "A note.", Priority: "low"},
		},
		"finance": {
			{Title: "Quiet markets", Summary: "Nothing moved.", Priority: "medium"},
		},
	}

	got := s.DailyOverview(context.Background(), byCategory)
	want := "Today's Intelligence Overview: " +
		"Technology developments: 1 major developments, 2 total articles; " +
		"Market movements: 1 articles to review. " +
		"Total articles for review: 3."
	if got != want {
		t.Errorf("overview = %q, want %q", got, want)
	}
}

func TestDailyOverviewEmpty(t *testing.T) {
	s := New()
	got := s.DailyOverview(context.Background(), nil)
	if got != emptyOverview {
		t.Errorf("empty overview = %q", got)
	}
}

func TestDailyOverviewPrefersProvider(t *testing.T) {
	p := &mockProvider{name: "model", available: true, summary: "A narrative overview."}
	s := New(p)

	byCategory := map[string][]OverviewArticle{
		"politics": {{Title: "Vote scheduled", Summary: "A vote.", Priority: "high"}},
	}
	got := s.DailyOverview(context.Background(), byCategory)
	if got != "A narrative overview." {
		t.Errorf("overview = %q, want provider output", got)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestDailyOverviewProviderFailureFallsBack(t *testing.T) {
	p := &mockProvider{name: "model", available: true, err: context.DeadlineExceeded}
	s := New(p)

	byCategory := map[string][]OverviewArticle{
		"finance": {{Title: "Rates held", Summary: "No change.", Priority: "high"}},
	}
	got := s.DailyOverview(context.Background(), byCategory)
	want := "Today's Intelligence Overview: " +
		"Market movements: 1 major developments, 1 total articles. " +
		"Total articles for review: 1."
	if got != want {
		t.Errorf("overview = %q, want %q", got, want)
	}
}
