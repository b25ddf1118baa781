// Package directive extracts "@key value" metadata lines from a comment body.
package directive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sandrolain/iris-docs/internal/docs"
)

var (
	listSeparator     = regexp.MustCompile(`\s*[,;]\s*`)
	categorySeparator = regexp.MustCompile(`\s*/\s*`)
	leadingFloat      = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// Result is the outcome of parsing one comment body.
type Result struct {
	Metadata docs.Metadata
	// Body is the input with every directive line blanked out.
	Body string
}

// Parse extracts the directives of body. index is the comment's position in
// its file and is exposed through the metadata. Parsing never fails: values
// that cannot be coerced pass through as raw strings.
func Parse(body string, index int) Result {
	meta := docs.NewMetadata(index)
	lines := tokenize(body)

	var b strings.Builder
	b.Grow(len(body))
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.kind == lineDirective {
			apply(&meta, l.key, l.value)
			continue
		}
		b.WriteString(l.text)
	}

	return Result{Metadata: meta, Body: b.String()}
}

// apply coerces value according to key and stores it in meta.
func apply(meta *docs.Metadata, key, value string) {
	switch key {
	case docs.KeyType:
		meta.Type = strings.ToLower(value)
	case docs.KeyTitle:
		meta.Title = value
	case docs.KeyTags:
		meta.Tags = SplitTags(value)
	case docs.KeyCategory:
		meta.Category = SplitCategory(value)
	case docs.KeySequence:
		if seq, ok := ParseSequence(value); ok {
			meta.Sequence = seq
			delete(meta.Extra, key)
		} else {
			setExtra(meta, key, value)
		}
	case docs.KeyParam:
		meta.Params = append(meta.Params, ParseParam(value))
	case docs.KeyReturn:
		r := ParseReturn(value)
		meta.Return = &r
	default:
		setExtra(meta, key, value)
	}
}

func setExtra(meta *docs.Metadata, key, value string) {
	if meta.Extra == nil {
		meta.Extra = make(map[string]string)
	}
	meta.Extra[key] = value
}

// SplitTags splits a comma or semicolon separated tag list.
func SplitTags(value string) []string {
	return splitNonEmpty(listSeparator, value)
}

// SplitCategory splits a "/" separated category path into trimmed components.
func SplitCategory(value string) []string {
	return splitNonEmpty(categorySeparator, value)
}

func splitNonEmpty(sep *regexp.Regexp, value string) []string {
	parts := sep.Split(strings.TrimSpace(value), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseSequence reads the leading floating-point number of value.
func ParseSequence(value string) (float64, bool) {
	num := leadingFloat.FindString(strings.TrimSpace(value))
	if num == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseParam splits "name type description...".
func ParseParam(value string) docs.Param {
	fields := strings.Fields(value)
	p := docs.Param{}
	if len(fields) > 0 {
		p.Name = fields[0]
	}
	if len(fields) > 1 {
		p.Type = fields[1]
	}
	if len(fields) > 2 {
		p.Description = strings.Join(fields[2:], " ")
	}
	return p
}

// ParseReturn splits "type description...".
func ParseReturn(value string) docs.Return {
	fields := strings.Fields(value)
	r := docs.Return{}
	if len(fields) > 0 {
		r.Type = fields[0]
	}
	if len(fields) > 1 {
		r.Description = strings.Join(fields[1:], " ")
	}
	return r
}
