package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher returns error with invalid directory
// - Single file change fires callback after debounce
// - Multiple file changes are batched into one sorted callback
// - Rapid changes to one file coalesce into a single callback
// - Pause/Resume behavior (accumulate during pause, fire on resume)
// - Filter drops unselected files
// - Files in new directories are watched
// - SkipDir excludes directories
// - Stop() is idempotent and safe before Start

const testDebounce = 100 * time.Millisecond

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 10)}
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	r.calls = append(r.calls, files)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("callback not called after timeout")
	}
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func startWatcher(t *testing.T, dir string, opts Options) (FileWatcher, *recorder) {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = testDebounce
	}

	w, err := NewFileWatcher([]string{dir}, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)
	return w, rec
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "nonexistent")}, Options{})
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{})

	file := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("/** hi */"), 0644))

	rec.wait(t)
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{file}, calls[0])
}

func TestFileWatcher_Batching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{Debounce: 300 * time.Millisecond})

	b := filepath.Join(dir, "b.js")
	a := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(b, []byte("b2"), 0644))

	rec.wait(t)
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{a, b}, calls[0])
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, rec := startWatcher(t, dir, Options{})

	w.Pause()
	file := filepath.Join(dir, "paused.js")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	time.Sleep(3 * testDebounce)
	assert.Empty(t, rec.snapshot(), "no callback while paused")

	w.Resume()
	rec.wait(t)
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], file)
}

func TestFileWatcher_Filter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{
		Filter: func(path string) bool { return strings.HasSuffix(path, ".js") },
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	js := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(js, []byte("x"), 0644))

	rec.wait(t)
	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{js}, calls[0])
}

func TestFileWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, Options{})

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(50 * time.Millisecond)

	file := filepath.Join(sub, "nested.js")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	rec.wait(t)
	assert.Contains(t, rec.snapshot()[0], file)
}

func TestFileWatcher_SkipDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	skipped := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(skipped, 0755))

	_, rec := startWatcher(t, dir, Options{
		SkipDir: func(path string) bool { return filepath.Base(path) == "node_modules" },
	})

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "dep.js"), []byte("x"), 0644))
	time.Sleep(3 * testDebounce)
	assert.Empty(t, rec.snapshot())
}

func TestFileWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, Options{})
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
