package collect

import "strings"

// MinContentLength is the minimum cleaned-content length for an entry to
// count as an article.
const MinContentLength = 50

const excerptLength = 400

// CleanText strips markup tags, decodes common entities, and collapses
// whitespace. The result is trimmed plain text, possibly empty.
func CleanText(text string) string {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			b.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			b.WriteRune(r)
		}
	}

	s := b.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	return strings.Join(strings.Fields(s), " ")
}

// Excerpt truncates content to the excerpt limit, appending an ellipsis
// when the content is longer. The limit counts runes so multibyte
// content is never cut mid-character.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}
