package triage

import "strings"

// MaxTags caps the tags attached to one article.
const MaxTags = 8

// tagRule maps one tag to its trigger substrings. Taxonomies are ordered
// slices rather than maps so iteration order, and therefore tag order,
// is stable.
type tagRule struct {
	Tag      string
	Triggers []string
}

var taxonomies = map[string][]tagRule{
	"ai": {
		{"gpt", []string{"gpt", "chatgpt", "gpt-4", "gpt-3"}},
		{"llm", []string{"language model", "llm", "large language"}},
		{"ml", []string{"machine learning", "deep learning", "neural network"}},
		{"startup", []string{"startup", "funding", "investment", "series a", "series b"}},
		{"research", []string{"paper", "research", "arxiv", "study", "journal"}},
		{"robotics", []string{"robot", "robotics", "autonomous"}},
		{"computer_vision", []string{"computer vision", "image recognition", "cv"}},
		{"nlp", []string{"natural language", "nlp", "text processing"}},
		{"ethics", []string{"ethics", "bias", "fairness", "responsible ai"}},
	},
	"finance": {
		{"crypto", []string{"bitcoin", "cryptocurrency", "crypto", "ethereum"}},
		{"stocks", []string{"stock", "equity", "shares", "nasdaq", "sp500"}},
		{"fed", []string{"federal reserve", "fed", "interest rate", "fomc"}},
		{"market", []string{"market", "trading", "dow jones"}},
		{"banking", []string{"bank", "banking", "credit", "loan"}},
		{"inflation", []string{"inflation", "cpi", "consumer price"}},
		{"earnings", []string{"earnings", "revenue", "profit", "quarterly"}},
		{"ipo", []string{"ipo", "public offering", "listing"}},
		{"merger", []string{"merger", "acquisition", "m&a"}},
	},
	"politics": {
		{"congress", []string{"congress", "senate", "house", "representatives"}},
		{"election", []string{"election", "vote", "campaign", "ballot"}},
		{"policy", []string{"policy", "legislation", "bill", "law"}},
		{"international", []string{"international", "foreign", "diplomatic"}},
		{"supreme_court", []string{"supreme court", "scotus", "judicial"}},
		{"presidency", []string{"president", "white house", "administration"}},
		{"healthcare", []string{"healthcare", "medicare", "medicaid"}},
		{"economy", []string{"economic", "fiscal", "budget"}},
		{"climate", []string{"climate", "environmental", "green energy"}},
	},
}

// Tags extracts up to MaxTags topic tags for the category, in taxonomy
// order. A tag matches when any trigger appears (case-insensitive) in
// title + content.
func Tags(title, content, category string) []string {
	text := strings.ToLower(title + " " + content)
	var tags []string

	for _, rule := range taxonomies[category] {
		if len(tags) >= MaxTags {
			break
		}
		for _, trigger := range rule.Triggers {
			if strings.Contains(text, trigger) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}

	return tags
}
