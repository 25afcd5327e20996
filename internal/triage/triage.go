// Package triage holds the deterministic scoring rules applied to every
// collected entry: priority tier, topic tags, and estimated reading time.
package triage

import (
	"math"
	"regexp"
	"strings"
)

// Priority tiers.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Scoring constants. These are the canonical values the test suite pins;
// treat them as the single source of truth for the business rule.
const (
	keywordWeight   = 0.5
	keywordCap      = 2.0
	numericBoost    = 0.5
	urgencyBoost    = 1.0
	highThreshold   = 4.0
	mediumThreshold = 2.5
)

// numericPattern matches percentages and shorthand currency amounts,
// which usually signal hard data.
var numericPattern = regexp.MustCompile(`\d+%|\$\d+\.?\d*[bmk]|\d+\.\d+%`)

var urgencyTerms = []string{"breaking", "urgent", "just in", "developing", "alert"}

// highPriorityTerms is the per-category keyword table feeding the
// priority score.
var highPriorityTerms = map[string][]string{
	"ai": {
		"breakthrough", "released", "announces", "launches", "gpt-", "claude",
		"funding round", "acquisition", "partnership", "regulation", "banned",
		"agi", "superintelligence", "$", "billion", "million funding",
	},
	"finance": {
		"fed decision", "interest rate", "inflation", "recession", "crash",
		"bank failure", "earnings beat", "guidance", "outlook", "upgraded",
		"downgraded", "merger", "acquisition", "ipo", "bankruptcy",
	},
	"politics": {
		"breaking", "urgent", "senate votes", "house passes", "president",
		"supreme court", "indictment", "investigation", "scandal",
		"election results", "poll", "debate", "resignation", "appointed",
	},
}

var tierBase = map[string]float64{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Priority computes the discrete priority tier for an article from its
// text, the source's static tier, and its category. Deterministic: the
// same inputs always yield the same tier.
func Priority(title, content, sourceTier, category string) string {
	text := strings.ToLower(title + " " + content)

	score, ok := tierBase[sourceTier]
	if !ok {
		score = 2
	}

	matches := 0
	for _, term := range highPriorityTerms[category] {
		if strings.Contains(text, term) {
			matches++
		}
	}
	score += math.Min(float64(matches)*keywordWeight, keywordCap)

	if numericPattern.MatchString(text) {
		score += numericBoost
	}

	for _, term := range urgencyTerms {
		if strings.Contains(text, term) {
			score += urgencyBoost
			break
		}
	}

	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ReadingTime estimates reading minutes at 200 words per minute,
// floored at 1 and capped at 15.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Round(float64(words) / 200))
	if minutes < 1 {
		minutes = 1
	}
	if minutes > 15 {
		minutes = 15
	}
	return minutes
}
