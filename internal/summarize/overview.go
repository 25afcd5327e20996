package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/RyanPaul06/RPNews/internal/config"
)

// OverviewArticle is the slice of article state the overview needs.
type OverviewArticle struct {
	Title    string
	Summary  string
	Priority string
}

var overviewCategoryNames = map[string]string{
	"ai":       "Technology developments",
	"finance":  "Market movements",
	"politics": "Policy updates",
}

const emptyOverview = "Your daily briefing is being prepared. " +
	"Check back in a few minutes for the latest updates."

// DailyOverview produces a short narrative across today's articles,
// keyed by category. Model providers are tried first; the rule-based
// template is the guaranteed fallback.
func (s *Summarizer) DailyOverview(ctx context.Context, byCategory map[string][]OverviewArticle) string {
	if digest := overviewDigest(byCategory); digest != "" {
		for _, p := range s.providers {
			callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
			overview, err := p.Summarize(callCtx, digest, 150, 50)
			cancel()
			if err != nil {
				log.Printf("Provider %s failed for daily overview: %v", p.Name(), err)
				continue
			}
			return overview
		}
	}
	return ruleBasedOverview(byCategory)
}

// overviewDigest assembles provider input from each category's leading
// high-priority articles, falling back to the most recent ones.
func overviewDigest(byCategory map[string][]OverviewArticle) string {
	var b strings.Builder
	for _, category := range config.Categories {
		articles := byCategory[category]
		top := highPriority(articles)
		if len(top) == 0 {
			top = articles
		}
		if len(top) > 3 {
			top = top[:3]
		}
		for _, a := range top {
			fmt.Fprintf(&b, "[%s] %s: %s\n", category, a.Title, a.Summary)
		}
	}
	return strings.TrimSpace(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func highPriority(articles []OverviewArticle) []OverviewArticle {
	var out []OverviewArticle
	for _, a := range articles {
		if a.Priority == "high" {
			out = append(out, a)
		}
	}
	return out
}

func ruleBasedOverview(byCategory map[string][]OverviewArticle) string {
	var parts []string
	total := 0
	for _, category := range config.Categories {
		articles := byCategory[category]
		if len(articles) == 0 {
			continue
		}
		total += len(articles)
		name, ok := overviewCategoryNames[category]
		if !ok {
			name = capitalize(category) + " news"
		}
		high := len(highPriority(articles))
		if high > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d major developments, %d total articles", name, high, len(articles)))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d articles to review", name, len(articles)))
		}
	}
	if len(parts) == 0 {
		return emptyOverview
	}
	return fmt.Sprintf("Today's Intelligence Overview: %s. Total articles for review: %d.",
		strings.Join(parts, "; "), total)
}
