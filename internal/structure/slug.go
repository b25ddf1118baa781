package structure

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/sandrolain/iris-docs/internal/docs"
)

// Slug derives the URL-safe key of a joined category path.
func Slug(path string) string {
	return slug.Make(path)
}

// JoinPath joins category components for display and slugging.
func JoinPath(parts []string) string {
	return strings.Join(parts, docs.PathSeparator)
}

// URL returns the output URL of a page with the given slug.
func URL(slug, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return slug + "." + ext
}
