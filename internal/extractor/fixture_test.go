package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/iris-docs/internal/docs"
)

// Test Plan for the fixture project (testdata/project):
// - Discovery finds every source below src/, plain comments are skipped
// - Document metadata, prose and included markdown are merged
// - Categories are ordered by sequence; nested paths get joined slugs
// - Items carry params and return values, ordered by sequence then index
// - Example fences become example code segments
// - Included files are recorded in the include graph

func runFixture(t *testing.T) *Result {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "project"))
	require.NoError(t, err)

	result, err := New(Config{
		RootDir:         root,
		Patterns:        []string{"src/**/*.js"},
		SplitCodeBlocks: true,
	}, nil, nil).Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestFixture_Document(t *testing.T) {
	t.Parallel()

	result := runFixture(t)
	assert.Len(t, result.Files, 3)

	doc := result.Model.Document
	assert.Equal(t, "Widgets", doc.Metadata.Title)
	assert.Equal(t, "1.4.0", doc.Metadata.Extra["version"])
	assert.Equal(t, "index.html", doc.URL)
	require.Len(t, doc.Segments, 1)
	assert.Contains(t, doc.Segments[0].Source, "A small library of **UI widgets**.")
	assert.Contains(t, doc.Segments[0].Source, "Widgets are framework agnostic.")
}

func TestFixture_Categories(t *testing.T) {
	t.Parallel()

	model := runFixture(t).Model

	var slugs []string
	for _, c := range model.Categories {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"getting-started", "widgets-button", "widgets-dialog"}, slugs)

	started, ok := model.Category("getting-started")
	require.True(t, ok)
	require.Len(t, started.Segments, 2)
	assert.Equal(t, docs.Segment{Type: docs.SegmentCode, Lang: "bash", Source: "npm install widgets"}, started.Segments[1])

	dialog, ok := model.Category("widgets-dialog")
	require.True(t, ok)
	assert.Equal(t, []string{"Widgets", "Dialog"}, dialog.Ancestors)
	assert.Equal(t, "Modal dialogs trap focus until closed.", dialog.Segments[0].Source)
}

func TestFixture_Items(t *testing.T) {
	t.Parallel()

	button, ok := runFixture(t).Model.Category("widgets-button")
	require.True(t, ok)

	require.Len(t, button.Segments, 2)
	assert.True(t, button.Segments[1].Example)
	assert.Equal(t, "html", button.Segments[1].Lang)

	require.Len(t, button.Items, 2)
	ctor := button.Items[0]
	assert.Equal(t, "new Button(label)", ctor.Metadata.Title)
	assert.Equal(t, []docs.Param{{Name: "label", Type: "string", Description: "the visible text"}}, ctor.Metadata.Params)
	require.NotNil(t, ctor.Metadata.Return)
	assert.Equal(t, "Button", ctor.Metadata.Return.Type)
	assert.Equal(t, "button.disable()", button.Items[1].Metadata.Title)
}

func TestFixture_IncludeGraph(t *testing.T) {
	t.Parallel()

	result := runFixture(t)

	included := result.Graph.Included()
	require.Len(t, included, 2)
	assert.Equal(t, "dialog.md", filepath.Base(included[0]))
	assert.Equal(t, "intro.md", filepath.Base(included[1]))
	assert.Equal(t, int64(2), result.Stats.IncludeReads)
}
