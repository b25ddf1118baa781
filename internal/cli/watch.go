package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/output"
	"github.com/sandrolain/iris-docs/internal/watcher"
)

// watchCmd rebuilds the documentation whenever a source changes.
var watchCmd = &cobra.Command{
	Use:   "watch [patterns]",
	Short: "Build, then rebuild on every source change",
	Long: `Build the documentation, then watch the input root and rebuild after
changes settle. Changes to source files matched by the patterns and to files
pulled in with @include both trigger a rebuild.

Example:
  iris-docs watch "src/**/*.js" -o site`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addOutputFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := newPipeline(cfg, slog.Default(), NewCLIProgressReporter(quiet, cmd.ErrOrStderr()))
	result, written, err := p.build(ctx)
	if err != nil {
		return err
	}
	if !quiet {
		p.report(cmd.OutOrStdout(), written)
	}

	// Rebuilds are reported through the log only
	p.progress = &extractor.NoOpProgressReporter{}

	rebuilder, err := newWatchRebuilder(p, cmd.OutOrStdout(), nil)
	if err != nil {
		return err
	}
	rebuilder.sources.SetGraph(result.Graph)

	return watchSources(ctx, rebuilder, p.logger)
}

// watchRebuilder implements watcher.Rebuilder on top of a pipeline.
type watchRebuilder struct {
	p       *pipeline
	out     io.Writer
	sources *watcher.Sources
	write   bool
	// onResult receives every successful extraction. May be nil.
	onResult func(ctx context.Context, result *extractor.Result) error
}

func newWatchRebuilder(p *pipeline, out io.Writer, onResult func(context.Context, *extractor.Result) error) (*watchRebuilder, error) {
	cfg := p.extractorConfig()
	fd, err := extractor.NewFileDiscovery(cfg.RootDir, cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return &watchRebuilder{
		p:        p,
		out:      out,
		sources:  watcher.NewSources(fd),
		write:    true,
		onResult: onResult,
	}, nil
}

// Rebuild extracts again with a fresh include cache, writes the output
// unless disabled, and refreshes the include graph used for relevance.
func (r *watchRebuilder) Rebuild(ctx context.Context, changed []string) error {
	r.p.logger.Debug("changed files", "files", changed)

	var (
		result  *extractor.Result
		written *output.Written
		err     error
	)
	if r.write {
		result, written, err = r.p.build(ctx)
	} else {
		result, err = r.p.extract(ctx)
	}
	if err != nil {
		return err
	}

	r.sources.SetGraph(result.Graph)
	if written != nil && !quiet {
		r.p.report(r.out, written)
	}

	if r.onResult == nil {
		return nil
	}
	return r.onResult(ctx, result)
}

// watchSources runs the watch loop until ctx is cancelled.
func watchSources(ctx context.Context, rebuilder *watchRebuilder, logger *slog.Logger) error {
	outDir, err := filepath.Abs(rebuilder.p.cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	files, err := watcher.NewFileWatcher([]string{rebuilder.p.cfg.Input.Root}, watcher.Options{
		Debounce: rebuilder.p.cfg.Watch.Debounce,
		Filter:   rebuilder.sources.Relevant,
		SkipDir: func(path string) bool {
			// The output directory is rewritten by every rebuild
			return path == outDir || rebuilder.sources.SkipDir(path)
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	logger.Info("watching for changes", "root", rebuilder.p.cfg.Input.Root)

	err = watcher.NewCoordinator(files, rebuilder, logger).Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
