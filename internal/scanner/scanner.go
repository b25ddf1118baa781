// Package scanner finds doc-comment blocks in raw source text.
//
// A block opens with "/*" followed by two or more dashes and closes with two
// or more dashes followed by "*/" (extra stars are allowed before the slash).
// The first close found ends the block.
package scanner

import (
	"regexp"
	"strings"
)

var (
	blockPattern = regexp.MustCompile(`(?s)/\*-{2,}(.*?)-{2,}\*+/`)

	// listPrefix matches a leading "* " gutter, or a bare "*" line (CRLF included).
	listPrefix = regexp.MustCompile(`(?m)^[ \t]*\*(?:[ \t]+|\r?$)`)
)

// Block is one doc-comment body found in a file.
type Block struct {
	Index int    // position among the blocks of the file
	Body  string // trimmed, gutter-free body
}

// Scan returns the doc-comment blocks of content in source order.
// A file without blocks yields an empty slice.
func Scan(content string) []Block {
	matches := blockPattern.FindAllStringSubmatch(content, -1)
	blocks := make([]Block, 0, len(matches))
	for i, m := range matches {
		blocks = append(blocks, Block{
			Index: i,
			Body:  StripListPrefix(strings.TrimSpace(m[1])),
		})
	}
	return blocks
}

// StripListPrefix removes the "* " gutter from the start of every line.
func StripListPrefix(body string) string {
	return listPrefix.ReplaceAllString(body, "")
}
