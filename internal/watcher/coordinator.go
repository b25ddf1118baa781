package watcher

import (
	"context"
	"log/slog"
	"time"
)

// Coordinator routes debounced file changes to a Rebuilder. File events are
// held back while a rebuild runs and delivered once it finishes.
type Coordinator struct {
	files   FileWatcher
	builder Rebuilder
	logger  *slog.Logger
	ctx     context.Context
}

// NewCoordinator creates a coordinator. A nil logger uses slog.Default().
func NewCoordinator(files FileWatcher, builder Rebuilder, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{files: files, builder: builder, logger: logger}
}

// Start begins routing file changes. Blocks until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx = ctx

	if err := c.files.Start(ctx, c.handleFileChange); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

func (c *Coordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		c.logger.Warn("file watcher stop failed", "error", err)
	}
}

// handleFileChange rebuilds with the watcher paused, so that changes made
// during the rebuild trigger exactly one follow-up rebuild.
func (c *Coordinator) handleFileChange(files []string) {
	if len(files) == 0 {
		return
	}

	c.files.Pause()
	defer c.files.Resume()

	c.logger.Info("rebuilding", "changed", len(files))
	start := time.Now()

	if err := c.builder.Rebuild(c.ctx, files); err != nil {
		c.logger.Error("rebuild failed", "error", err)
		return
	}

	c.logger.Info("rebuild complete", "duration", time.Since(start).Round(time.Millisecond))
}
