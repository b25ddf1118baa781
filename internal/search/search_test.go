package search

import (
	"context"
	"testing"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Search:
// - RemoveFormatting drops markdown markup, HTML tags and extra whitespace
// - Entries: one for the document, then one per category in model order
// - Entries: code segments never contribute text; item prose does
// - Index: query matches title and text, returns stored fields and highlights
// - Index: empty result for unknown terms, limit is clamped
// - Index: Replace swaps the indexed entries
// - Index: canceled context is rejected

func TestRemoveFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"emphasis", "some **bold** and _italic_ text", "some bold and italic text"},
		{"heading and list", "# Title\n\n- one\n- two", "Title one two"},
		{"link", "see [the docs](http://example.com)", "see the docs"},
		{"inline html", "a <b>strong</b> word", "a strong word"},
		{"code span", "call `run()` now", "call run() now"},
		{"whitespace", "  a\n\n\n   b\t c  ", "a b c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RemoveFormatting(tt.input))
		})
	}
}

func testModel() *docs.Model {
	doc := &docs.Comment{Index: 0, Metadata: docs.NewMetadata(0), Segments: []docs.Segment{
		docs.TextSegment("Welcome to **iris**."),
		{Type: docs.SegmentCode, Lang: "js", Source: "secretCode()"},
	}}
	doc.Metadata.Type = structure.TypeDocument
	doc.Metadata.Title = "Iris"

	cat := &docs.Comment{Index: 1, Metadata: docs.NewMetadata(1), Segments: []docs.Segment{
		docs.TextSegment("Buttons are clickable."),
	}}
	cat.Metadata.Type = structure.TypeCategory
	cat.Metadata.Title = "Buttons"
	cat.Metadata.Category = []string{"Components", "Buttons"}

	item := &docs.Comment{Index: 2, Metadata: docs.NewMetadata(2), Segments: []docs.Segment{
		docs.TextSegment("A primary <em>variant</em>."),
	}}
	item.Metadata.Title = "Primary"
	item.Metadata.Category = []string{"Components", "Buttons"}

	return structure.Build([]*docs.Comment{doc, cat, item}, structure.Options{})
}

func TestEntries(t *testing.T) {
	t.Parallel()

	entries := Entries(testModel())
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{Title: "Iris", Text: "Welcome to iris.", URL: "index.html"}, entries[0])
	assert.Equal(t, Entry{
		Title:    "Buttons",
		Category: "Components / Buttons",
		Text:     "Buttons are clickable. A primary variant.",
		URL:      "components-buttons.html",
	}, entries[1])
}

func TestEntries_EmptyModel(t *testing.T) {
	t.Parallel()

	entries := Entries(structure.Build(nil, structure.Options{}))
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Text)
	assert.Equal(t, "index.html", entries[0].URL)
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := NewIndex(ctx, Entries(testModel()))
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Search(ctx, "clickable", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Buttons", results[0].Entry.Title)
	assert.Equal(t, "components-buttons.html", results[0].Entry.URL)
	assert.Equal(t, "Components / Buttons", results[0].Entry.Category)
	assert.Greater(t, results[0].Score, 0.0)
	assert.NotEmpty(t, results[0].Highlights)

	results, err = s.Search(ctx, "welcome", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "index.html", results[0].Entry.URL)

	results, err = s.Search(ctx, "secretCode", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "code is not indexed")
}

func TestIndex_Replace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := NewIndex(ctx, []Entry{
		{Title: "Old", Text: "outdated content", URL: "old.html"},
		{Title: "Stale", Text: "stale content", URL: "stale.html"},
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Replace(ctx, []Entry{{Title: "New", Text: "fresh content", URL: "new.html"}}))

	results, err := s.Search(ctx, "content", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new.html", results[0].Entry.URL)
}

func TestIndex_CanceledContext(t *testing.T) {
	t.Parallel()

	s, err := NewIndex(context.Background(), nil)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Search(ctx, "anything", 10)
	assert.ErrorIs(t, err, context.Canceled)
}
