// Package summarize produces article summaries through a tiered provider
// chain: local model, then hosted model, then a deterministic rule-based
// extractor that never fails.
package summarize

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/RyanPaul06/RPNews/internal/llm"
)

const (
	// Provider input budgets.
	maxPromptChars = 2000
	maxPromptWords = 800

	// Target summary bounds passed to model providers.
	summaryMaxWords = 120
	summaryMinWords = 30

	providerTimeout = 90 * time.Second
)

var categoryLabels = map[string]string{
	"ai":       "AI Development",
	"finance":  "Market Update",
	"politics": "Policy Update",
}

const defaultLabel = "News Update"

// Summarizer holds the ordered provider chain. Providers are probed once
// at construction; unavailable ones are excluded up front.
type Summarizer struct {
	providers []llm.Provider
}

// New builds a summarizer from candidate providers in priority order,
// keeping only those whose availability probe passes.
func New(candidates ...llm.Provider) *Summarizer {
	var available []llm.Provider
	for _, p := range candidates {
		if p == nil {
			continue
		}
		if p.IsAvailable() {
			log.Printf("Summarization provider available: %s", p.Name())
			available = append(available, p)
		} else {
			log.Printf("Summarization provider unavailable: %s", p.Name())
		}
	}
	if len(available) == 0 {
		log.Println("No model providers available; using rule-based summaries")
	}
	return &Summarizer{providers: available}
}

// Summary generates a short summary for an article. Model providers are
// tried in order; provider-scoped failures fall through silently until
// the rule-based extractor, which always succeeds.
func (s *Summarizer) Summary(ctx context.Context, title, content, category string) string {
	text := truncate(title+". "+content, maxPromptChars, maxPromptWords)

	for _, p := range s.providers {
		callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
		summary, err := p.Summarize(callCtx, text, summaryMaxWords, summaryMinWords)
		cancel()
		if err != nil {
			log.Printf("Provider %s failed, falling through: %v", p.Name(), err)
			continue
		}
		return categoryLabel(category) + ": " + summary
	}

	return RuleBasedSummary(title, content, category)
}

func categoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return defaultLabel
}

// truncate bounds text by character count first, then by word count.
// Characters are runes, so multibyte text is never cut mid-character.
func truncate(text string, maxChars, maxWords int) string {
	if runes := []rune(text); len(runes) > maxChars {
		text = string(runes[:maxChars])
	}
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
