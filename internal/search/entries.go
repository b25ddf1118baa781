// Package search derives plain-text search entries from the document model
// and serves keyword queries over them.
package search

import (
	"strings"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/segment"
)

// Entry is one searchable page.
type Entry struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Text     string `json:"text"`
	URL      string `json:"url"`
}

// Entries returns one entry for the document followed by one per category,
// in model order. Only prose contributes text; code segments are skipped.
func Entries(model *docs.Model) []Entry {
	entries := make([]Entry, 0, len(model.Categories)+1)

	entries = append(entries, Entry{
		Title: model.Document.Metadata.Title,
		Text:  PlainText(prose(model.Document.Segments)...),
		URL:   model.Document.URL,
	})

	for _, c := range model.Categories {
		sources := prose(c.Segments)
		for _, item := range c.Items {
			sources = append(sources, prose(item.Segments)...)
		}

		entries = append(entries, Entry{
			Title:    c.Title(),
			Category: c.Path,
			Text:     PlainText(sources...),
			URL:      c.URL,
		})
	}

	return entries
}

func prose(segments []docs.Segment) []string {
	var out []string
	for _, s := range segment.Prose(segments) {
		out = append(out, s.Source)
	}
	return out
}

// PlainText joins sources with spaces and strips markdown and HTML markup.
func PlainText(sources ...string) string {
	if len(sources) == 0 {
		return ""
	}
	return RemoveFormatting(strings.Join(sources, " "))
}
