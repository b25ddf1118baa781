package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds the pattern string and one compiled glob per
// variant. A "**/" segment also matches zero directories, so every
// combination of dropped "**/" segments is compiled as a variant.
type compiledPattern struct {
	pattern string
	globs   []glob.Glob
}

// FileDiscovery finds source files with glob patterns and ignore rules.
type FileDiscovery struct {
	rootDir        string
	patterns       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery compiles the input and ignore patterns. Patterns are
// relative to rootDir; a leading "./" is dropped and absolute patterns below
// rootDir are made relative.
func NewFileDiscovery(rootDir string, patterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir: rootDir,
	}

	var err error
	if fd.patterns, err = compilePatterns(rootDir, patterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compilePatterns(rootDir, ignorePatterns); err != nil {
		return nil, err
	}

	return fd, nil
}

func compilePatterns(rootDir string, patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		normalized := normalizePattern(rootDir, pattern)
		if normalized == "" {
			continue
		}
		cp := compiledPattern{pattern: normalized}
		for _, variant := range zeroDirVariants(normalized) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			cp.globs = append(cp.globs, g)
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// zeroDirVariants returns pattern followed by every variant with some of its
// "**/" segments removed, so "src/**/*.js" also yields "src/*.js".
func zeroDirVariants(pattern string) []string {
	variants := []string{pattern}
	seen := map[string]bool{pattern: true}

	for i := 0; i < len(variants); i++ {
		p := variants[i]
		for j := 0; j+3 <= len(p); j++ {
			if p[j:j+3] != "**/" || (j > 0 && p[j-1] != '/') {
				continue
			}
			v := p[:j] + p[j+3:]
			if !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
	}
	return variants
}

func normalizePattern(rootDir, pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if filepath.IsAbs(pattern) {
		if rel, err := filepath.Rel(rootDir, pattern); err == nil && !strings.HasPrefix(rel, "..") {
			pattern = rel
		}
	}
	pattern = filepath.ToSlash(pattern)
	for strings.HasPrefix(pattern, "./") {
		pattern = strings.TrimPrefix(pattern, "./")
	}
	return pattern
}

// Discover walks the root directory and returns matching files. Files are
// grouped by the first pattern they match, in pattern order, and sorted
// lexically within a group. A file is returned once.
func (fd *FileDiscovery) Discover() ([]string, error) {
	buckets := make([][]string, len(fd.patterns))

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		if i := fd.firstMatch(relPath); i >= 0 {
			buckets[i] = append(buckets[i], path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, bucket := range buckets {
		files = append(files, bucket...)
	}
	return files, nil
}

// Matches reports whether path (absolute or relative to the root) is a source file.
func (fd *FileDiscovery) Matches(path string) bool {
	rel, ok := fd.relative(path)
	return ok && !fd.shouldIgnore(rel) && fd.firstMatch(rel) >= 0
}

// Ignored reports whether path (absolute or relative to the root) matches
// an ignore pattern. Paths outside the root are never ignored.
func (fd *FileDiscovery) Ignored(path string) bool {
	rel, ok := fd.relative(path)
	return ok && fd.shouldIgnore(rel)
}

// relative returns path relative to the root in slash form. It fails for
// absolute paths outside the root.
func (fd *FileDiscovery) relative(path string) (string, bool) {
	if filepath.IsAbs(path) {
		root, err := filepath.Abs(fd.rootDir)
		if err != nil {
			return "", false
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", false
		}
		path = rel
	}
	return filepath.ToSlash(path), true
}

// RootDir returns the directory discovery starts from.
func (fd *FileDiscovery) RootDir() string {
	return fd.rootDir
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if fd.matchesAny(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	return fd.matchesAny(relPath+"/**", fd.ignorePatterns)
}

func (fd *FileDiscovery) matchesAny(path string, patterns []compiledPattern) bool {
	for i := range patterns {
		if matchPattern(path, patterns[i]) {
			return true
		}
	}
	return false
}

func (fd *FileDiscovery) firstMatch(path string) int {
	for i := range fd.patterns {
		if matchPattern(path, fd.patterns[i]) {
			return i
		}
	}
	return -1
}

// matchPattern reports whether path matches any variant of cp.
func matchPattern(path string, cp compiledPattern) bool {
	for _, g := range cp.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
