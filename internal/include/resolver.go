// Package include expands @include directives inside doc comments.
package include

import (
	"path/filepath"
	"strings"

	"github.com/sandrolain/iris-docs/internal/directive"
	"github.com/sandrolain/iris-docs/internal/docs"
)

// Resolver substitutes @include lines with the raw contents of the
// referenced files. Included text is not scanned again.
type Resolver struct {
	cache *Cache
	graph *Graph
}

// NewResolver creates a resolver reading through cache. graph may be nil.
func NewResolver(cache *Cache, graph *Graph) *Resolver {
	return &Resolver{cache: cache, graph: graph}
}

// Resolve returns body with every @include line of the comment owned by
// sourcePath replaced by the included file. Paths are relative to the
// directory of sourcePath. A read failure is fatal.
func (r *Resolver) Resolve(sourcePath, body string) (string, error) {
	lines := strings.Split(body, "\n")
	dir := filepath.Dir(sourcePath)

	found := false
	for i, line := range lines {
		rel, ok := ParseLine(line)
		if !ok {
			continue
		}

		path, err := filepath.Abs(filepath.Join(dir, rel))
		if err != nil {
			return "", docs.IOError("resolve include", rel, err)
		}

		content, err := r.cache.Load(path)
		if err != nil {
			return "", docs.IOError("read include", path, err)
		}

		if r.graph != nil {
			if src, err := filepath.Abs(sourcePath); err == nil {
				if err := r.graph.AddInclude(src, path); err != nil {
					return "", err
				}
			}
		}

		lines[i] = content
		found = true
	}

	if !found {
		return body, nil
	}
	return strings.Join(lines, "\n"), nil
}

// CountLines returns the number of @include lines in body. Included text is
// never expanded again, so the lines of all scanned bodies bound the distinct
// paths a run can read.
func CountLines(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if _, ok := ParseLine(line); ok {
			n++
		}
	}
	return n
}

// ParseLine returns the relative path of an "@include <path>" line.
func ParseLine(line string) (string, bool) {
	key, value, ok := directive.ParseLine(line)
	if !ok || key != docs.KeyInclude {
		return "", false
	}
	// "@include : path" puts the colon after the whitespace.
	value = strings.TrimSpace(strings.TrimPrefix(value, ":"))
	if value == "" {
		return "", false
	}
	return value, true
}
