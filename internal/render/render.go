// Package render turns the document model into HTML pages.
//
// The built-in formatter can be customized per responsibility through an
// Override; hooks left nil fall back to the built-in behavior, and nested
// calls (a page formatting its items, an item formatting its segments)
// always go through the overridden hooks.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync/atomic"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/sandrolain/iris-docs/internal/docs"
)

// Formatter formats the parts of the model, one method per responsibility.
type Formatter interface {
	// FormatText formats a prose segment.
	FormatText(seg docs.Segment) string

	// FormatCode formats a fenced code segment.
	FormatCode(seg docs.Segment) string

	// FormatItem formats one item of a category.
	FormatItem(item docs.Item) string

	// FormatCategoryPage returns the page of a category. ok is false for
	// categories that produce no page.
	FormatCategoryPage(category *docs.CategoryNode, model *docs.Model) (page string, ok bool)

	// FormatIndexPage returns the document page.
	FormatIndexPage(model *docs.Model) string
}

// Override replaces individual responsibilities of the built-in formatter.
type Override struct {
	Text         func(seg docs.Segment) string
	Code         func(seg docs.Segment) string
	Item         func(item docs.Item) string
	CategoryPage func(category *docs.CategoryNode, model *docs.Model) (string, bool)
	IndexPage    func(model *docs.Model) string
}

// Options configures the built-in formatter.
type Options struct {
	// ConvertMarkdown renders prose as markdown; otherwise it is escaped.
	ConvertMarkdown bool
	// Version is printed in the page footer.
	Version string
	// Override replaces individual hooks. May be nil.
	Override *Override
}

// HTML is the built-in formatter.
type HTML struct {
	opts     Options
	markdown goldmark.Markdown
	examples atomic.Int64
}

// New returns the built-in HTML formatter with opts.Override applied.
func New(opts Options) *HTML {
	if opts.Override == nil {
		opts.Override = &Override{}
	}

	return &HTML{
		opts: opts,
		markdown: goldmark.New(
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithXHTML(),
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// FormatSegment dispatches a segment to FormatText or FormatCode.
func FormatSegment(f Formatter, seg docs.Segment) string {
	if seg.IsCode() {
		return f.FormatCode(seg)
	}
	return f.FormatText(seg)
}

// FormatSegments formats segments in order and concatenates the output.
func FormatSegments(f Formatter, segments []docs.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(FormatSegment(f, seg))
	}
	return sb.String()
}

// FormatText formats a prose segment as markdown or escaped text.
func (h *HTML) FormatText(seg docs.Segment) string {
	if h.opts.Override.Text != nil {
		return h.opts.Override.Text(seg)
	}
	return `<div class="ird-text">` + h.prose(seg.Source, false) + `</div>`
}

// FormatCode formats a code segment. Example segments also embed their
// source live, next to the escaped listing.
func (h *HTML) FormatCode(seg docs.Segment) string {
	if h.opts.Override.Code != nil {
		return h.opts.Override.Code(seg)
	}

	lang := html.EscapeString(seg.Lang)
	listing := fmt.Sprintf(`<pre><code data-lang="%s" class="language-%s">%s</code></pre>`,
		lang, lang, html.EscapeString(seg.Source))

	if !seg.Example {
		return `<div class="ird-code">` + listing + `</div>`
	}

	uid := fmt.Sprintf("ex%d", h.examples.Add(1))
	return fmt.Sprintf(`<div class="panel panel-tabs">`+
		`<input type="radio" name="tab-%[1]s" id="tab-%[1]s-render" checked />`+
		`<label class="panel-tab" for="tab-%[1]s-render">Example Render</label>`+
		`<div class="panel-cnt"><div class="ird-example__render">%[2]s</div></div>`+
		`<input type="radio" name="tab-%[1]s" id="tab-%[1]s-code" />`+
		`<label class="panel-tab" for="tab-%[1]s-code">Example Code</label>`+
		`<div class="panel-cnt">%[3]s</div>`+
		`</div>`, uid, seg.Source, listing)
}

// FormatItem formats an item with its parameters, return value and body.
func (h *HTML) FormatItem(item docs.Item) string {
	if h.opts.Override.Item != nil {
		return h.opts.Override.Item(item)
	}

	var params strings.Builder
	for _, p := range item.Metadata.Params {
		fmt.Fprintf(&params, `<dt><code class="fg-accent">%s</code> <em>%s</em></dt><dd>%s</dd>`,
			html.EscapeString(p.Name), html.EscapeString(p.Type), h.prose(p.Description, false))
	}
	if r := item.Metadata.Return; r != nil {
		fmt.Fprintf(&params, `<dt><code class="fg-accent">return</code> <em>%s</em></dt><dd>%s</dd>`,
			html.EscapeString(r.Type), h.prose(r.Description, false))
	}

	var sb strings.Builder
	sb.WriteString(`<div class="ird-comment"><div class="ird-comment__head">`)
	fmt.Fprintf(&sb, `<h3 class="ird-comment__title">%s</h3></div>`, h.prose(item.Metadata.Title, true))
	if params.Len() > 0 {
		sb.WriteString(`<div class="ird-comment__params">` + params.String() + `</div>`)
	}
	sb.WriteString(`<div class="ird-comment__body">` + FormatSegments(h, item.Segments) + `</div>`)
	sb.WriteString(`</div>`)
	return sb.String()
}

// prose renders user text. inline strips the wrapping paragraph so titles
// can be placed inside headings.
func (h *HTML) prose(source string, inline bool) string {
	source = ReplaceEscapedChars(source)
	if !h.opts.ConvertMarkdown {
		return html.EscapeString(source)
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}

	out := buf.String()
	if inline {
		out = stripParagraph(out)
	}
	return out
}

func stripParagraph(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "<p>") && strings.HasSuffix(t, "</p>") && strings.Count(t, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(t, "<p>"), "</p>")
	}
	return s
}

// ReplaceEscapedChars expands literal \n and \t sequences.
func ReplaceEscapedChars(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
