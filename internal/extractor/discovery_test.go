package extractor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Files are grouped by first matching pattern, lexical within a group
// - A file matching two patterns is returned once
// - Ignore patterns skip files and whole directories
// - "**/" patterns also match root-level files
// - Inner "**/" segments match zero directories
// - "./" prefixes and absolute patterns under the root are normalized
// - Matches agrees with Discover for relative and absolute paths
// - Ignored reports ignored files and directories inside the root only
// - Invalid patterns are rejected

func TestDiscover_PatternOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"lib/b.js", "lib/a.js", "docs/intro.md", "README.md", "lib/c.go"} {
		writeFile(t, filepath.Join(dir, name), "")
	}

	fd, err := NewFileDiscovery(dir, []string{"**/*.md", "lib/*.js", "lib/a.js"}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "docs", "intro.md"),
		filepath.Join(dir, "lib", "a.js"),
		filepath.Join(dir, "lib", "b.js"),
	}, files)
}

func TestDiscover_Ignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"src/a.js", "src/a.min.js", "node_modules/pkg/index.js"} {
		writeFile(t, filepath.Join(dir, name), "")
	}

	fd, err := NewFileDiscovery(dir, []string{"**/*.js"}, []string{"node_modules/**", "**/*.min.js"})
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src", "a.js")}, files)
}

func TestDiscover_NormalizesPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.js"), "")
	writeFile(t, filepath.Join(dir, "src", "b.ts"), "")

	fd, err := NewFileDiscovery(dir, []string{"./src/*.js", filepath.Join(dir, "src", "*.ts")}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src", "a.js"), filepath.Join(dir, "src", "b.ts")}, files)
}

func TestDiscover_NoMatches(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery(t.TempDir(), []string{"*.js"}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fd, err := NewFileDiscovery(dir, []string{"src/**/*.js"}, []string{"src/vendor/**"})
	require.NoError(t, err)

	assert.True(t, fd.Matches("src/a/b.js"))
	assert.True(t, fd.Matches(filepath.Join(dir, "src", "a", "b.js")))
	assert.False(t, fd.Matches("src/vendor/x.js"))
	assert.False(t, fd.Matches("lib/a.js"))
	assert.False(t, fd.Matches(filepath.Join(filepath.Dir(dir), "elsewhere.js")))
	assert.Equal(t, dir, fd.RootDir())
}

func TestMatches_ZeroDirectories(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery(t.TempDir(), []string{"src/**/*.js", "docs/**/api/**/*.md"}, nil)
	require.NoError(t, err)

	assert.True(t, fd.Matches("src/a.js"))
	assert.True(t, fd.Matches("src/x/a.js"))
	assert.True(t, fd.Matches("src/x/y/a.js"))
	assert.False(t, fd.Matches("srca.js"))
	assert.False(t, fd.Matches("lib/src/a.js"))

	assert.True(t, fd.Matches("docs/api/a.md"))
	assert.True(t, fd.Matches("docs/v1/api/a.md"))
	assert.True(t, fd.Matches("docs/api/ref/a.md"))
	assert.False(t, fd.Matches("docs/a.md"))
}

func TestZeroDirVariants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"src/**/*.js", "src/*.js"}, zeroDirVariants("src/**/*.js"))
	assert.Equal(t, []string{"**/*.md", "*.md"}, zeroDirVariants("**/*.md"))
	assert.Equal(t, []string{"a/b**/c"}, zeroDirVariants("a/b**/c"))
	assert.ElementsMatch(t, []string{"a/**/b/**/c", "a/b/**/c", "a/**/b/c", "a/b/c"}, zeroDirVariants("a/**/b/**/c"))
}

func TestIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fd, err := NewFileDiscovery(dir, []string{"src/**/*.js"}, []string{"src/vendor/**", "node_modules/**"})
	require.NoError(t, err)

	assert.True(t, fd.Ignored("src/vendor"))
	assert.True(t, fd.Ignored("src/vendor/lib.js"))
	assert.True(t, fd.Ignored(filepath.Join(dir, "node_modules")))
	assert.False(t, fd.Ignored("src"))
	assert.False(t, fd.Ignored(filepath.Join(dir, "src", "a.js")))
	assert.False(t, fd.Ignored(filepath.Join(filepath.Dir(dir), "node_modules")))
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"src/[a"}, nil)
	assert.Error(t, err)
}
