package render

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for HTML formatter:
// - Text: markdown converted when enabled, escaped otherwise; \n and \t escapes expanded
// - Code: escaped listing with language class; example blocks embed the live source
// - Item: params and return rendered, title inlined without a paragraph
// - Category page: none for empty categories or the "index" category
// - Category page: breadcrumbs for nested paths, side menu with active entry
// - Index page: document prose plus the "index" category body
// - Override: hooks replace single responsibilities and nested calls use them
// - Built-in assets are embedded

func newFormatter(markdown bool) *HTML {
	return New(Options{ConvertMarkdown: markdown, Version: "test"})
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	md := newFormatter(true).FormatText(docs.TextSegment("Some **bold** text"))
	assert.Equal(t, "<div class=\"ird-text\"><p>Some <strong>bold</strong> text</p>\n</div>", md)

	plain := newFormatter(false).FormatText(docs.TextSegment(`a <b> & c\nnext`))
	assert.Equal(t, "<div class=\"ird-text\">a &lt;b&gt; &amp; c\nnext</div>", plain)
}

func TestFormatCode(t *testing.T) {
	t.Parallel()

	f := newFormatter(true)

	code := f.FormatCode(docs.Segment{Type: docs.SegmentCode, Lang: "js", Source: "a < b"})
	assert.Equal(t, `<div class="ird-code"><pre><code data-lang="js" class="language-js">a &lt; b</code></pre></div>`, code)

	example := f.FormatCode(docs.Segment{Type: docs.SegmentCode, Lang: "html", Example: true, Source: "<button>Hi</button>"})
	assert.Contains(t, example, `<div class="ird-example__render"><button>Hi</button></div>`)
	assert.Contains(t, example, `&lt;button&gt;Hi&lt;/button&gt;`)

	second := f.FormatCode(docs.Segment{Type: docs.SegmentCode, Lang: "html", Example: true, Source: "x"})
	assert.NotEqual(t, tabName(example), tabName(second), "example tabs need unique names")
}

func tabName(s string) string {
	start := strings.Index(s, `name="`)
	if start < 0 {
		return ""
	}
	rest := s[start+len(`name="`):]
	return rest[:strings.Index(rest, `"`)]
}

func TestFormatItem(t *testing.T) {
	t.Parallel()

	meta := docs.NewMetadata(0)
	meta.Title = "Run `task`"
	meta.Params = []docs.Param{{Name: "x", Type: "int", Description: "the count"}}
	meta.Return = &docs.Return{Type: "bool", Description: "ok"}

	out := newFormatter(true).FormatItem(docs.Item{
		Metadata: meta,
		Segments: []docs.Segment{docs.TextSegment("Body")},
	})

	assert.Contains(t, out, `<h3 class="ird-comment__title">Run <code>task</code></h3>`)
	assert.Contains(t, out, `<dt><code class="fg-accent">x</code> <em>int</em></dt><dd><p>the count</p>`)
	assert.Contains(t, out, `<dt><code class="fg-accent">return</code> <em>bool</em></dt>`)
	assert.Contains(t, out, `<div class="ird-comment__body"><div class="ird-text"><p>Body</p>`)
}

func TestFormatItem_NoParams(t *testing.T) {
	t.Parallel()

	out := newFormatter(false).FormatItem(docs.Item{Metadata: docs.NewMetadata(0)})
	assert.NotContains(t, out, "ird-comment__params")
}

func comment(index int, typ, title string, category []string, text string) *docs.Comment {
	c := &docs.Comment{Index: index, Metadata: docs.NewMetadata(index)}
	c.Metadata.Type = typ
	c.Metadata.Title = title
	c.Metadata.Category = category
	if text != "" {
		c.Segments = []docs.Segment{docs.TextSegment(text)}
	}
	return c
}

func testModel() *docs.Model {
	return structure.Build([]*docs.Comment{
		comment(0, structure.TypeDocument, "My Lib", nil, "Welcome"),
		comment(1, structure.TypeCategory, "Guide", []string{"Guide"}, "Guide intro"),
		comment(2, structure.TypeCategory, "Basics", []string{"Guide", "Basics"}, "Basics intro"),
		comment(3, structure.TypeCategory, "Empty", []string{"Empty"}, ""),
		comment(4, "", "Loose", nil, "loose item"),
	}, structure.Options{})
}

func TestFormatCategoryPage(t *testing.T) {
	t.Parallel()

	model := testModel()
	f := newFormatter(false)

	basics, ok := model.Category("guide-basics")
	require.True(t, ok)
	page, ok := f.FormatCategoryPage(basics, model)
	require.True(t, ok)

	assert.Contains(t, page, "<title>My Lib</title>")
	assert.Contains(t, page, "<h2>Basics</h2>")
	assert.Contains(t, page, `Path: <a href="guide.html" class="">Guide</a> / <a href="guide-basics.html" class="active ">Basics</a>`)
	assert.Contains(t, page, `<div class="menu-item active"><a href="guide-basics.html">Basics</a></div>`)
	assert.Contains(t, page, "Basics intro")
	assert.Contains(t, page, "Generated with iris-docs test")

	guide, ok := model.Category("guide")
	require.True(t, ok)
	page, ok = f.FormatCategoryPage(guide, model)
	require.True(t, ok)
	assert.NotContains(t, page, "crumbs")
	assert.Contains(t, page, `<div class="menu inverse"><div class="menu-item"><a href="guide-basics.html">Basics</a></div></div>`)

	empty, ok := model.Category("empty")
	require.True(t, ok)
	_, ok = f.FormatCategoryPage(empty, model)
	assert.False(t, ok)

	index, ok := model.Category("index")
	require.True(t, ok)
	_, ok = f.FormatCategoryPage(index, model)
	assert.False(t, ok)
}

func TestFormatIndexPage(t *testing.T) {
	t.Parallel()

	model := testModel()
	page := newFormatter(false).FormatIndexPage(model)

	assert.Contains(t, page, `<div class="ird-index__body"><div class="ird-text">Welcome</div></div>`)
	assert.Contains(t, page, "loose item")
	assert.Contains(t, page, `<div class="menu-item active"><a href="index.html">My Lib</a></div>`)
	assert.NotContains(t, page, `href="index.html">index`, "index category is not in the menu")
	assert.Contains(t, page, `<div class="menu-item">Empty</div>`, "empty categories are not linked")
}

func TestOverride(t *testing.T) {
	t.Parallel()

	f := New(Options{Override: &Override{
		Text: func(seg docs.Segment) string { return "[" + seg.Source + "]" },
	}})

	assert.Equal(t, "[hi]", f.FormatText(docs.TextSegment("hi")))
	assert.Contains(t, f.FormatCode(docs.Segment{Type: docs.SegmentCode, Source: "x"}), "ird-code")

	item := f.FormatItem(docs.Item{Metadata: docs.NewMetadata(0), Segments: []docs.Segment{docs.TextSegment("body")}})
	assert.Contains(t, item, "[body]")

	page := f.FormatIndexPage(testModel())
	assert.Contains(t, page, "[Welcome]")
	assert.Contains(t, page, "[loose item]")
}

func TestOverride_CategoryPage(t *testing.T) {
	t.Parallel()

	var f Formatter = New(Options{Override: &Override{
		CategoryPage: func(c *docs.CategoryNode, _ *docs.Model) (string, bool) { return c.Slug, true },
	}})

	model := testModel()
	empty, _ := model.Category("empty")
	page, ok := f.FormatCategoryPage(empty, model)
	assert.True(t, ok)
	assert.Equal(t, "empty", page)
}

func TestReplaceEscapedChars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\tc", ReplaceEscapedChars(`a\nb\tc`))
}

func TestAssets(t *testing.T) {
	t.Parallel()

	for _, name := range AssetNames {
		data, err := fs.ReadFile(Assets, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
