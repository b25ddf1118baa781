package directive

import "strings"

// FenceMarker delimits fenced code blocks.
const FenceMarker = "```"

type lineKind int

const (
	lineProse lineKind = iota
	lineDirective
	lineFence // a line that opens or closes a fenced block
	lineCode  // a line inside a fenced block
)

type line struct {
	kind  lineKind
	text  string
	key   string
	value string
}

// tokenize classifies every line of body. Directive lines are only
// recognized outside fenced code. A fence that is never closed does not
// open a block: the lines from it onwards are classified as if it were prose.
func tokenize(body string) []line {
	raw := strings.Split(body, "\n")
	lines := make([]line, 0, len(raw))

	inFence := false
	openedAt := -1
	for i, text := range raw {
		l, toggles := classify(text, inFence)
		if toggles {
			inFence = !inFence
			if inFence {
				openedAt = i
			}
		}
		lines = append(lines, l)
	}

	if inFence {
		for i := openedAt; i < len(raw); i++ {
			lines[i], _ = classify(raw[i], false)
			if lines[i].kind == lineFence {
				lines[i].kind = lineProse
			}
		}
	}

	return lines
}

// classify returns the kind of one line given the fence state before it,
// and whether the line toggles that state.
func classify(text string, inFence bool) (line, bool) {
	if n := strings.Count(text, FenceMarker); n > 0 {
		if n%2 == 1 {
			return line{kind: lineFence, text: text}, true
		}
		if inFence {
			return line{kind: lineCode, text: text}, false
		}
		return line{kind: lineProse, text: text}, false
	}

	if inFence {
		return line{kind: lineCode, text: text}, false
	}

	if key, value, ok := ParseLine(text); ok {
		return line{kind: lineDirective, text: text, key: key, value: value}, false
	}

	return line{kind: lineProse, text: text}, false
}

// ParseLine recognizes a directive line: optional indentation, "@", a key of
// non-space non-colon characters, an optional ":", then either whitespace and
// the value or the end of the line. The key is lower-cased and the value trimmed.
func ParseLine(text string) (key, value string, ok bool) {
	s := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(s, "@") {
		return "", "", false
	}
	s = s[1:]

	end := strings.IndexFunc(s, func(r rune) bool {
		return r == ':' || isSpace(r)
	})
	if end == 0 {
		return "", "", false
	}
	if end < 0 {
		end = len(s)
	}
	key = strings.ToLower(s[:end])
	rest := strings.TrimPrefix(s[end:], ":")

	if rest != "" && !isSpace(rune(rest[0])) {
		return "", "", false
	}

	return key, strings.TrimSpace(rest), true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}
