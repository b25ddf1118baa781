package include

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
)

// Graph records which source files include which files.
// Edges point from the including source to the included file.
type Graph struct {
	mu sync.RWMutex
	g  graph.Graph[string, string]
}

// NewGraph creates an empty include graph.
func NewGraph() *Graph {
	return &Graph{
		g: graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddInclude records that source includes included.
func (g *Graph) AddInclude(source, included string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, v := range []string{source, included} {
		if err := g.g.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add vertex %s: %w", v, err)
		}
	}

	if err := g.g.AddEdge(source, included); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to add include edge %s -> %s: %w", source, included, err)
	}
	return nil
}

// Dependents returns the sources that directly include path, sorted.
func (g *Graph) Dependents(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	preds, err := g.g.PredecessorMap()
	if err != nil {
		return nil
	}

	var out []string
	for src := range preds[path] {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Included returns every file that some source includes, sorted.
func (g *Graph) Included() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	preds, err := g.g.PredecessorMap()
	if err != nil {
		return nil
	}

	var out []string
	for path, sources := range preds {
		if len(sources) > 0 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Contains reports whether path takes part in any include relation.
func (g *Graph) Contains(path string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, err := g.g.Vertex(path)
	return err == nil
}
