package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/mcp"
)

var serveWatch bool

// serveCmd exposes the documentation model over MCP.
var serveCmd = &cobra.Command{
	Use:   "serve [patterns]",
	Short: "Start an MCP server over the extracted documentation",
	Long: `Extract the documentation and serve it to MCP clients over stdio.

Tools:
- iris_docs_search: full-text search over the pages
- iris_docs_category: one category with its prose and items
- iris_docs_tree: the category tree

With --watch the model is re-extracted whenever a source changes. Nothing is
written to the output directory.

Example:
  iris-docs serve "src/**/*.js" --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "re-extract on source changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol
	p := newPipeline(cfg, slog.Default(), NewCLIProgressReporter(quiet, cmd.ErrOrStderr()))
	result, err := p.extract(ctx)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(ctx, result.Model, Version, p.logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if serveWatch {
		p.progress = &extractor.NoOpProgressReporter{}

		rebuilder, err := newWatchRebuilder(p, cmd.ErrOrStderr(), func(ctx context.Context, r *extractor.Result) error {
			return server.Update(ctx, r.Model)
		})
		if err != nil {
			return err
		}
		rebuilder.write = false
		rebuilder.sources.SetGraph(result.Graph)

		go func() {
			if err := watchSources(ctx, rebuilder, p.logger); err != nil {
				p.logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	return server.Serve(ctx)
}
