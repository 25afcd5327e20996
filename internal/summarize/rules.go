package summarize

import (
	"regexp"
	"strings"
)

const (
	candidateSentences = 10
	minSentenceLength  = 30
	keepScore          = 2
	fallbackSentences  = 3
	fallbackMinLength  = 20
)

// factPattern marks sentences carrying concrete data: percentages,
// dollar amounts, or direct quotes.
var factPattern = regexp.MustCompile(`\d+%|\$\d+|"\w+`)

// keyIndicators are per-category terms that mark a sentence as newsworthy.
var keyIndicators = map[string][]string{
	"ai": {
		"announces", "launches", "breakthrough", "develops", "ai", "model",
		"algorithm", "machine learning", "neural", "artificial intelligence",
	},
	"finance": {
		"reports", "earnings", "revenue", "profit", "investment", "funding",
		"market", "stock", "financial", "economic", "fed", "rate",
	},
	"politics": {
		"policy", "legislation", "congress", "senate", "president",
		"governor", "election", "vote", "political", "government",
	},
}

var defaultIndicators = []string{
	"announces", "launches", "reports", "reveals", "shows", "increases",
	"decreases", "plans", "expects", "breakthrough", "develops", "creates",
	"discovers",
}

// RuleBasedSummary extracts the most informative sentences from article
// content. Sentences are scored by category indicator hits and the
// presence of concrete figures; the top two survivors are joined under
// a category label. It always returns a non-empty string.
func RuleBasedSummary(title, content, category string) string {
	indicators, ok := keyIndicators[category]
	if !ok {
		indicators = defaultIndicators
	}

	sentences := strings.Split(strings.ReplaceAll(content, "\n", " "), ".")
	if len(sentences) > candidateSentences {
		sentences = sentences[:candidateSentences]
	}

	var kept []string
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= minSentenceLength {
			continue
		}
		lower := strings.ToLower(sentence)
		score := 0
		for _, term := range indicators {
			if strings.Contains(lower, term) {
				score += 2
			}
		}
		if factPattern.MatchString(sentence) {
			score++
		}
		if score >= keepScore {
			kept = append(kept, sentence)
		}
	}

	// Fallback only considers the leading sentences, not the whole
	// candidate window.
	if len(kept) == 0 {
		window := sentences
		if len(window) > fallbackSentences {
			window = window[:fallbackSentences]
		}
		for _, sentence := range window {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) > fallbackMinLength {
				kept = append(kept, sentence)
			}
		}
	}

	if len(kept) > 2 {
		kept = kept[:2]
	}

	keyInfo := strings.Join(kept, ". ")
	if keyInfo == "" {
		keyInfo = strings.TrimSpace(title)
	}
	return categoryLabel(category) + ": " + keyInfo + "."
}
