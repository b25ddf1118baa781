package watcher

import (
	"path/filepath"
	"sync/atomic"

	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/include"
)

// Sources decides which changed files affect the output: files matched by
// the input patterns, and files included by the last run.
type Sources struct {
	discovery *extractor.FileDiscovery
	graph     atomic.Pointer[include.Graph]
}

// NewSources creates a relevance filter over discovery.
func NewSources(discovery *extractor.FileDiscovery) *Sources {
	return &Sources{discovery: discovery}
}

// SetGraph records the include graph of the latest run.
func (s *Sources) SetGraph(g *include.Graph) {
	s.graph.Store(g)
}

// Relevant reports whether a change to path requires a rebuild.
func (s *Sources) Relevant(path string) bool {
	if s.discovery.Matches(path) {
		return true
	}

	g := s.graph.Load()
	if g == nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return g.Contains(abs)
}

// SkipDir reports whether a directory is excluded by the ignore patterns.
func (s *Sources) SkipDir(path string) bool {
	return s.discovery.Ignored(path)
}
