// Package extractor runs one extraction: it discovers and reads source files,
// resolves every doc comment in parallel, then folds the comments into the
// document model.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sandrolain/iris-docs/internal/directive"
	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/include"
	"github.com/sandrolain/iris-docs/internal/scanner"
	"github.com/sandrolain/iris-docs/internal/segment"
	"github.com/sandrolain/iris-docs/internal/structure"
)

// Config configures an Extractor.
type Config struct {
	RootDir         string   // directory patterns are relative to
	Patterns        []string // input glob patterns
	Ignore          []string // glob patterns excluded from discovery
	SplitCodeBlocks bool     // segment bodies into prose and code
	DefaultCategory []string // category of comments without @category
	Ext             string   // page extension used for URLs
	Concurrency     int      // parallel units of work; 0 means GOMAXPROCS
	CacheCapacity   int      // minimum distinct included files kept per run
}

// Stats summarizes one run.
type Stats struct {
	Files        int           `json:"files"`
	Comments     int           `json:"comments"`
	Categories   int           `json:"categories"`
	IncludeReads int64         `json:"include_reads"`
	Duration     time.Duration `json:"duration"`
}

// Result is the outcome of a successful run.
type Result struct {
	RunID string
	Model *docs.Model
	Files []string
	Graph *include.Graph
	Stats Stats
}

// Extractor executes runs. Each run owns its include cache.
type Extractor struct {
	config   Config
	progress ProgressReporter
	logger   *slog.Logger
	read     include.ReadFunc
}

// New creates an extractor. A nil progress reporter or logger disables them.
func New(config Config, progress ProgressReporter, logger *slog.Logger) *Extractor {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.RootDir == "" {
		config.RootDir = "."
	}

	return &Extractor{
		config:   config,
		progress: &serialReporter{next: progress},
		logger:   logger,
		read:     os.ReadFile,
	}
}

// Run discovers the input files and extracts them.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	if len(e.config.Patterns) == 0 {
		return nil, docs.ConfigError("discover", docs.ErrNoSources)
	}

	fd, err := NewFileDiscovery(e.config.RootDir, e.config.Patterns, e.config.Ignore)
	if err != nil {
		return nil, docs.ConfigError("discover", err)
	}

	e.progress.OnDiscoveryStart()
	files, err := fd.Discover()
	if err != nil {
		return nil, docs.IOError("discover", e.config.RootDir, err)
	}
	if len(files) == 0 {
		return nil, docs.ConfigError("discover", docs.ErrNoFiles)
	}
	e.progress.OnDiscoveryComplete(len(files))

	return e.Extract(ctx, files)
}

// Extract reads the given files in parallel and extracts them.
func (e *Extractor) Extract(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, docs.ConfigError("extract", docs.ErrNoFiles)
	}

	sources := make([]docs.SourceFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := e.read(path)
			if err != nil {
				return docs.IOError("read source", path, err)
			}
			sources[i] = docs.SourceFile{Path: path, Content: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e.ExtractSources(ctx, sources)
}

// ExtractSources extracts already-read source files. The model is built only
// after every comment of every file has been resolved.
func (e *Extractor) ExtractSources(ctx context.Context, sources []docs.SourceFile) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := e.logger.With("run_id", runID)
	log.Debug("extraction started", "files", len(sources))

	blocks := make([][]scanner.Block, len(sources))
	comments := make([][]*docs.Comment, len(sources))
	pending := make([]atomic.Int32, len(sources))

	e.progress.OnFileProcessingStart(len(sources))
	includeLines := 0
	for i, src := range sources {
		blocks[i] = scanner.Scan(src.Content)
		comments[i] = make([]*docs.Comment, len(blocks[i]))
		pending[i].Store(int32(len(blocks[i])))
		for _, block := range blocks[i] {
			includeLines += include.CountLines(block.Body)
		}
		if len(blocks[i]) == 0 {
			e.progress.OnFileProcessed(src.Path)
		}
	}

	// Sized so that no included file is evicted and read twice.
	cache, err := include.NewCache(include.CapacityFor(includeLines, e.config.CacheCapacity), e.read)
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	graph := include.NewGraph()
	resolver := include.NewResolver(cache, graph)
	opts := segment.Options{SplitCodeBlocks: e.config.SplitCodeBlocks}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, src := range sources {
		for j, block := range blocks[i] {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := ResolveComment(resolver, src.Path, block, opts)
				if err != nil {
					return err
				}
				comments[i][j] = c
				if pending[i].Add(-1) == 0 {
					e.progress.OnFileProcessed(src.Path)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Debug("extraction failed", "error", err)
		return nil, err
	}

	builder := structure.NewBuilder(structure.Options{
		DefaultCategory: e.config.DefaultCategory,
		Ext:             e.config.Ext,
	})
	total := 0
	files := make([]string, len(sources))
	for i, fileComments := range comments {
		files[i] = sources[i].Path
		for _, c := range fileComments {
			builder.Add(c)
		}
		total += len(fileComments)
	}
	model := builder.Build()

	stats := Stats{
		Files:        len(sources),
		Comments:     total,
		Categories:   len(model.Categories),
		IncludeReads: cache.Reads(),
		Duration:     time.Since(start),
	}
	log.Info("extraction complete",
		"files", stats.Files,
		"comments", stats.Comments,
		"categories", stats.Categories,
		"include_reads", stats.IncludeReads,
		"duration", stats.Duration)
	e.progress.OnComplete(&stats)

	return &Result{
		RunID: runID,
		Model: model,
		Files: files,
		Graph: graph,
		Stats: stats,
	}, nil
}

// ResolveComment turns one scanned block into a fully resolved comment:
// includes are expanded, then directives parsed, then the body segmented.
// Each pass returns a new string and leaves its input untouched.
func ResolveComment(resolver *include.Resolver, path string, block scanner.Block, opts segment.Options) (*docs.Comment, error) {
	raw, err := resolver.Resolve(path, block.Body)
	if err != nil {
		return nil, err
	}

	parsed := directive.Parse(raw, block.Index)

	return &docs.Comment{
		Path:     path,
		Index:    block.Index,
		Raw:      raw,
		Metadata: parsed.Metadata,
		Segments: segment.Split(parsed.Body, opts),
	}, nil
}

func (e *Extractor) concurrency() int {
	if e.config.Concurrency > 0 {
		return e.config.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// serialReporter serializes callbacks coming from worker goroutines.
type serialReporter struct {
	mu   sync.Mutex
	next ProgressReporter
}

func (s *serialReporter) OnDiscoveryStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnDiscoveryStart()
}

func (s *serialReporter) OnDiscoveryComplete(files int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnDiscoveryComplete(files)
}

func (s *serialReporter) OnFileProcessingStart(totalFiles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnFileProcessingStart(totalFiles)
}

func (s *serialReporter) OnFileProcessed(fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnFileProcessed(fileName)
}

func (s *serialReporter) OnComplete(stats *Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.OnComplete(stats)
}

// String renders stats for log lines.
func (s Stats) String() string {
	return fmt.Sprintf("%d files, %d comments, %d categories in %s",
		s.Files, s.Comments, s.Categories, s.Duration.Round(time.Millisecond))
}
