// Package segment splits a directive-free comment body into prose and fenced
// code segments.
package segment

import (
	"regexp"
	"strings"

	"github.com/sandrolain/iris-docs/internal/directive"
	"github.com/sandrolain/iris-docs/internal/docs"
)

// examplePrefix marks a fenced block that is rendered live as well as shown.
const examplePrefix = "example:"

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Options controls segmentation.
type Options struct {
	// SplitCodeBlocks enables fence detection. When false the whole body is
	// returned as a single prose segment.
	SplitCodeBlocks bool
}

// Split returns the ordered segments of body.
func Split(body string, opts Options) []docs.Segment {
	body = CollapseBlankLines(body)

	if !opts.SplitCodeBlocks {
		return []docs.Segment{docs.TextSegment(strings.TrimSpace(body))}
	}

	segments := []docs.Segment{}
	addProse := func(text string) {
		if text = strings.TrimSpace(text); text != "" {
			segments = append(segments, docs.TextSegment(text))
		}
	}

	rest := body
	for {
		open := strings.Index(rest, directive.FenceMarker)
		if open < 0 {
			break
		}
		inner := rest[open+len(directive.FenceMarker):]
		closing := strings.Index(inner, directive.FenceMarker)
		if closing < 0 {
			// An unmatched fence is plain prose.
			break
		}

		addProse(rest[:open])
		segments = append(segments, codeSegment(inner[:closing]))
		rest = inner[closing+len(directive.FenceMarker):]
	}
	addProse(rest)

	return segments
}

// codeSegment builds a code segment from the text between two fences. The
// language tag runs from the opening fence up to the first whitespace.
func codeSegment(inner string) docs.Segment {
	tagEnd := strings.IndexFunc(inner, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if tagEnd < 0 {
		tagEnd = len(inner)
	}

	lang, example := ParseLang(inner[:tagEnd])
	return docs.Segment{
		Type:    docs.SegmentCode,
		Lang:    lang,
		Example: example,
		Source:  strings.TrimSpace(inner[tagEnd:]),
	}
}

// ParseLang interprets a fence tag: "example:<lang>" yields lang and true,
// anything else is returned verbatim with false.
func ParseLang(tag string) (string, bool) {
	if len(tag) >= len(examplePrefix) && strings.EqualFold(tag[:len(examplePrefix)], examplePrefix) {
		return tag[len(examplePrefix):], true
	}
	return tag, false
}

// CollapseBlankLines reduces runs of three or more newlines to one blank line.
func CollapseBlankLines(body string) string {
	return blankRuns.ReplaceAllString(body, "\n\n")
}

// Prose returns the prose segments of segments, in order.
func Prose(segments []docs.Segment) []docs.Segment {
	out := make([]docs.Segment, 0, len(segments))
	for _, s := range segments {
		if !s.IsCode() {
			out = append(out, s)
		}
	}
	return out
}
