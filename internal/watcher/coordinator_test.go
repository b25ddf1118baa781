package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/include"
)

// Test Plan for Coordinator:
// - File change triggers Rebuild with the changed files
// - Watcher is paused during the rebuild and resumed after
// - Changes during a rebuild are delivered after it, as one follow-up rebuild
// - Rebuild failure is logged and watching continues
// - Start error is propagated
// - Context cancellation stops the watcher
//
// Test Plan for Sources:
// - Files matched by the input patterns are relevant
// - Included files of the last run are relevant
// - Ignored directories are skipped

// mockFileWatcher implements FileWatcher for testing.
type mockFileWatcher struct {
	mu          sync.Mutex
	startErr    error
	callback    func(files []string)
	paused      bool
	pauseCount  int
	resumeCount int
	stopCalled  bool
	pending     [][]string
}

func (m *mockFileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callback = callback
	return m.startErr
}

func (m *mockFileWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockFileWatcher) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCount++
	m.paused = true
}

func (m *mockFileWatcher) Resume() {
	m.mu.Lock()
	m.resumeCount++
	m.paused = false
	pending := m.pending
	m.pending = nil
	callback := m.callback
	m.mu.Unlock()

	for _, files := range pending {
		callback(files)
	}
}

func (m *mockFileWatcher) trigger(files []string) {
	m.mu.Lock()
	if m.paused {
		m.pending = append(m.pending, files)
		m.mu.Unlock()
		return
	}
	callback := m.callback
	m.mu.Unlock()

	callback(files)
}

func (m *mockFileWatcher) isPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// mockRebuilder implements Rebuilder for testing.
type mockRebuilder struct {
	mu       sync.Mutex
	err      error
	calls    [][]string
	onBuild  func()
	pausedAt []bool
	files    *mockFileWatcher
}

func (m *mockRebuilder) Rebuild(ctx context.Context, changed []string) error {
	m.mu.Lock()
	m.calls = append(m.calls, changed)
	m.pausedAt = append(m.pausedAt, m.files.isPaused())
	onBuild := m.onBuild
	m.onBuild = nil
	err := m.err
	m.mu.Unlock()

	if onBuild != nil {
		onBuild()
	}
	return err
}

func setupCoordinator(t *testing.T) (*Coordinator, *mockFileWatcher, *mockRebuilder, context.CancelFunc, <-chan error) {
	t.Helper()

	files := &mockFileWatcher{}
	builder := &mockRebuilder{files: files}
	coord := NewCoordinator(files, builder, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- coord.Start(ctx) }()

	require.Eventually(t, func() bool {
		files.mu.Lock()
		defer files.mu.Unlock()
		return files.callback != nil
	}, time.Second, 10*time.Millisecond)

	t.Cleanup(cancel)
	return coord, files, builder, cancel, errCh
}

func TestCoordinator_RebuildsOnChange(t *testing.T) {
	t.Parallel()

	_, files, builder, _, _ := setupCoordinator(t)

	files.trigger([]string{"/src/a.js", "/src/b.js"})

	builder.mu.Lock()
	defer builder.mu.Unlock()
	require.Len(t, builder.calls, 1)
	assert.Equal(t, []string{"/src/a.js", "/src/b.js"}, builder.calls[0])
	assert.Equal(t, []bool{true}, builder.pausedAt, "watcher is paused during rebuild")
	assert.Equal(t, 1, files.pauseCount)
	assert.Equal(t, 1, files.resumeCount)
	assert.False(t, files.paused)
}

func TestCoordinator_ChangesDuringRebuild(t *testing.T) {
	t.Parallel()

	_, files, builder, _, _ := setupCoordinator(t)

	builder.onBuild = func() {
		files.trigger([]string{"/src/late.js"})
	}
	files.trigger([]string{"/src/a.js"})

	builder.mu.Lock()
	defer builder.mu.Unlock()
	require.Len(t, builder.calls, 2)
	assert.Equal(t, []string{"/src/late.js"}, builder.calls[1])
}

func TestCoordinator_RebuildError(t *testing.T) {
	t.Parallel()

	_, files, builder, _, _ := setupCoordinator(t)
	builder.err = errors.New("boom")

	files.trigger([]string{"/src/a.js"})
	files.trigger([]string{"/src/b.js"})

	builder.mu.Lock()
	defer builder.mu.Unlock()
	assert.Len(t, builder.calls, 2, "watching continues after a failed rebuild")
}

func TestCoordinator_StartError(t *testing.T) {
	t.Parallel()

	files := &mockFileWatcher{startErr: errors.New("watch failed")}
	coord := NewCoordinator(files, &mockRebuilder{files: files}, nil)

	err := coord.Start(context.Background())
	assert.EqualError(t, err, "watch failed")
	assert.True(t, files.stopCalled)
}

func TestCoordinator_ContextCancellation(t *testing.T) {
	t.Parallel()

	_, files, _, cancel, errCh := setupCoordinator(t)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("coordinator did not stop")
	}

	files.mu.Lock()
	defer files.mu.Unlock()
	assert.True(t, files.stopCalled)
}

func TestSources(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := extractor.NewFileDiscovery(root, []string{"src/*.js"}, []string{"node_modules/**"})
	require.NoError(t, err)

	sources := NewSources(fd)

	assert.True(t, sources.Relevant(filepath.Join(root, "src", "app.js")))
	assert.False(t, sources.Relevant(filepath.Join(root, "README.md")))

	readme := filepath.Join(root, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Hi"), 0644))

	g := include.NewGraph()
	require.NoError(t, g.AddInclude(filepath.Join(root, "src", "app.js"), readme))
	sources.SetGraph(g)
	assert.True(t, sources.Relevant(readme), "included files are relevant")

	assert.True(t, sources.SkipDir(filepath.Join(root, "node_modules")))
	assert.False(t, sources.SkipDir(filepath.Join(root, "src")))
}
