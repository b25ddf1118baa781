package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	// DefaultLimit is used when a search asks for no or too many results.
	DefaultLimit = 15
	maxLimit     = 100
	batchSize    = 1000
)

// Searcher defines full-text keyword search over search entries.
type Searcher interface {
	// Search executes a query in bleve query-string syntax.
	Search(ctx context.Context, query string, limit int) ([]*Result, error)

	// Replace swaps the indexed entries for a rebuilt set.
	Replace(ctx context.Context, entries []Entry) error

	// Close releases resources held by the searcher.
	Close() error
}

// Result is one search hit with highlighted snippets.
type Result struct {
	Entry      Entry    `json:"entry"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"` // Matching snippets with <mark> tags
}

// index implements Searcher using an in-memory bleve index.
type index struct {
	mu    sync.RWMutex
	index bleve.Index
	ids   []string
}

// NewIndex creates an in-memory searcher holding entries.
func NewIndex(ctx context.Context, entries []Entry) (Searcher, error) {
	bi, err := newBleveIndex(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &index{index: bi, ids: entryIDs(len(entries))}, nil
}

func newBleveIndex(ctx context.Context, entries []Entry) (bleve.Index, error) {
	bi, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	if err := indexEntries(ctx, bi, entries); err != nil {
		bi.Close()
		return nil, fmt.Errorf("failed to index entries: %w", err)
	}
	return bi, nil
}

// buildMapping creates the index mapping for entry documents.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	// Text field (primary search target) - standard analyzer
	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = "standard"
	textMapping.Store = true
	textMapping.Index = true
	textMapping.IncludeTermVectors = true // Enable phrase search and highlighting

	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = "standard"
	titleMapping.Store = true
	titleMapping.Index = true
	titleMapping.IncludeTermVectors = true

	// Category path - standard analyzer for partial matching
	categoryMapping := bleve.NewTextFieldMapping()
	categoryMapping.Analyzer = "standard"
	categoryMapping.Store = true
	categoryMapping.Index = true

	// URL (stored but not analyzed)
	urlMapping := bleve.NewTextFieldMapping()
	urlMapping.Analyzer = "keyword"
	urlMapping.Store = true
	urlMapping.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", titleMapping)
	docMapping.AddFieldMappingsAt("category", categoryMapping)
	docMapping.AddFieldMappingsAt("text", textMapping)
	docMapping.AddFieldMappingsAt("url", urlMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// indexEntries adds entries to the bleve index in batches.
func indexEntries(ctx context.Context, bi bleve.Index, entries []Entry) error {
	batch := bi.NewBatch()
	for i, e := range entries {
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if err := batch.Index(entryID(i), entryToDocument(e)); err != nil {
			return fmt.Errorf("failed to add entry %s to batch: %w", e.URL, err)
		}

		if batch.Size() >= batchSize {
			if err := bi.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = bi.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := bi.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}
	return nil
}

// Entries may share a URL (the document and the "index" category), so ids
// are positional.
func entryID(i int) string {
	return fmt.Sprintf("entry-%d", i)
}

func entryIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = entryID(i)
	}
	return ids
}

func entryToDocument(e Entry) map[string]interface{} {
	return map[string]interface{}{
		"title":    e.Title,
		"category": e.Category,
		"text":     e.Text,
		"url":      e.URL,
	}
}

// Search executes a keyword search using bleve QueryStringQuery syntax.
func (s *index) Search(ctx context.Context, queryStr string, limit int) ([]*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxLimit {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	request := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(queryStr), limit, 0, false)
	highlightStyle := "html"
	request.Highlight = bleve.NewHighlight()
	request.Highlight.Style = &highlightStyle
	request.Highlight.Fields = []string{"title", "text"}
	request.Fields = []string{"title", "category", "text", "url"}

	res, err := s.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		title, _ := hit.Fields["title"].(string)
		category, _ := hit.Fields["category"].(string)
		text, _ := hit.Fields["text"].(string)
		url, _ := hit.Fields["url"].(string)

		results = append(results, &Result{
			Entry:      Entry{Title: title, Category: category, Text: text, URL: url},
			Score:      hit.Score,
			Highlights: extractHighlights(hit.Fragments),
		})
	}
	return results, nil
}

// extractHighlights flattens bleve fragments, keeping at most three.
func extractHighlights(fragments map[string][]string) []string {
	var highlights []string
	for _, field := range []string{"title", "text"} {
		highlights = append(highlights, fragments[field]...)
	}
	if len(highlights) > 3 {
		highlights = highlights[:3]
	}
	return highlights
}

// Replace rebuilds the index contents in one batch.
func (s *index) Replace(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	for _, id := range s.ids {
		batch.Delete(id)
	}
	for i, e := range entries {
		if err := batch.Index(entryID(i), entryToDocument(e)); err != nil {
			return fmt.Errorf("failed to add entry %s to batch: %w", e.URL, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	s.ids = entryIDs(len(entries))
	return nil
}

// Close releases resources held by the searcher.
func (s *index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index.Close()
	}
	return nil
}
