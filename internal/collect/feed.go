package collect

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RawEntry is one feed item as parsed, before triage. It exists only
// during a single fetch cycle.
type RawEntry struct {
	Title       string
	Link        string
	Content     string
	Author      *string
	PublishedAt *time.Time
}

// ParseFeed converts raw feed bytes into entries. Entries without a link
// or title are dropped with a log line; maxEntries caps the result.
func ParseFeed(raw []byte, sourceName string, maxEntries int) ([]RawEntry, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing feed from %s: %w", sourceName, err)
	}

	var entries []RawEntry
	for _, item := range feed.Items {
		if maxEntries > 0 && len(entries) >= maxEntries {
			break
		}

		entry := parseItem(item)
		if entry == nil {
			log.Printf("Skipping malformed entry from %s", sourceName)
			continue
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

func parseItem(item *gofeed.Item) *RawEntry {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	if link == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	var publishedAt *time.Time
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	var author *string
	if item.Author != nil && item.Author.Name != "" {
		author = &item.Author.Name
	}

	return &RawEntry{
		Title:       title,
		Link:        link,
		Content:     content,
		Author:      author,
		PublishedAt: publishedAt,
	}
}
