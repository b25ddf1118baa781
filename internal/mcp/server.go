// Package mcp exposes a built documentation model to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/search"
)

// ServerName identifies the server to MCP clients.
const ServerName = "iris-docs"

// Server serves the current model and its search index. The model can be
// replaced while serving, e.g. by a watcher after a rebuild.
type Server struct {
	mu       sync.RWMutex
	model    *docs.Model
	searcher search.Searcher
	mcp      *server.MCPServer
	logger   *slog.Logger
}

// NewServer indexes model and registers the iris_docs tools.
func NewServer(ctx context.Context, model *docs.Model, version string, logger *slog.Logger) (*Server, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	searcher, err := search.NewIndex(ctx, search.Entries(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	s := &Server{
		model:    model,
		searcher: searcher,
		logger:   logger,
		mcp: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(true),
		),
	}

	AddSearchTool(s.mcp, s)
	AddCategoryTool(s.mcp, s)
	AddTreeTool(s.mcp, s)

	return s, nil
}

// Model returns the model currently served.
func (s *Server) Model() *docs.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Search queries the index of the current model.
func (s *Server) Search(ctx context.Context, query string, limit int) ([]*search.Result, error) {
	return s.searcher.Search(ctx, query, limit)
}

// Update swaps in a rebuilt model and reindexes it.
func (s *Server) Update(ctx context.Context, model *docs.Model) error {
	if err := s.searcher.Replace(ctx, search.Entries(model)); err != nil {
		return fmt.Errorf("failed to reindex: %w", err)
	}

	s.mu.Lock()
	s.model = model
	s.mu.Unlock()

	s.logger.Debug("model updated", "categories", len(model.Categories))
	return nil
}

// Serve runs the MCP server on stdio until ctx is canceled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		errCh <- server.ServeStdio(s.mcp)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("stopping MCP server")
		return nil
	}
}

// Close releases the search index.
func (s *Server) Close() error {
	return s.searcher.Close()
}
