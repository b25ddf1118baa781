package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandrolain/iris-docs/internal/config"
	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/output"
	"github.com/sandrolain/iris-docs/internal/render"
)

var (
	outDir      string
	assetList   string
	pageExt     string
	modelJSON   bool
	concurrency int
)

// addOutputFlags registers the flags shared by every command that builds.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default \"docs\")")
	cmd.Flags().StringVarP(&assetList, "assets", "a", "", "comma separated files copied next to the pages")
	cmd.Flags().StringVar(&pageExt, "ext", "", "page extension (default \"html\")")
	cmd.Flags().BoolVar(&modelJSON, "model-json", false, "also write model.json")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel units of work (default GOMAXPROCS)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	p := newPipeline(cfg, slog.Default(), NewCLIProgressReporter(quiet, cmd.ErrOrStderr()))
	_, written, err := p.build(cmd.Context())
	if err != nil {
		return err
	}

	if !quiet {
		p.report(cmd.OutOrStdout(), written)
	}
	return nil
}

// loadConfig loads the configuration file and environment, then applies
// positional patterns and flags. The result is fully validated.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	loader := config.NewLoader(wd)
	if cfgFile != "" {
		loader = config.NewFileLoader(wd, cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, docs.ConfigError("load config", err)
	}

	applyFlags(cmd, cfg, args)

	if err := config.Validate(cfg); err != nil {
		return nil, docs.ConfigError("validate config", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the patterns argument and the flags set on
// the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.SetPatterns(args[0])
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("assets") {
		cfg.Output.Assets = config.SplitList(assetList)
	}
	if flags.Changed("ext") {
		cfg.Output.Ext = pageExt
	}
	if flags.Changed("model-json") {
		cfg.Output.ModelJSON = modelJSON
	}
	if flags.Changed("concurrency") {
		cfg.Run.Concurrency = concurrency
	}
}

// pipeline runs extraction and writes the output for one configuration.
type pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	progress  extractor.ProgressReporter
	formatter render.Formatter
}

func newPipeline(cfg *config.Config, logger *slog.Logger, progress extractor.ProgressReporter) *pipeline {
	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		progress: progress,
		formatter: render.New(render.Options{
			ConvertMarkdown: cfg.Render.ConvertMarkdown,
			Version:         Version,
		}),
	}
}

func (p *pipeline) extractorConfig() extractor.Config {
	return extractor.Config{
		RootDir:         p.cfg.Input.Root,
		Patterns:        p.cfg.Input.Patterns,
		Ignore:          p.cfg.Input.Ignore,
		SplitCodeBlocks: p.cfg.Parse.SplitCodeBlocks,
		DefaultCategory: p.cfg.DefaultCategoryPath(),
		Ext:             p.cfg.Output.Ext,
		Concurrency:     p.cfg.Run.Concurrency,
	}
}

// extract runs one extraction without writing anything.
func (p *pipeline) extract(ctx context.Context) (*extractor.Result, error) {
	return extractor.New(p.extractorConfig(), p.progress, p.logger).Run(ctx)
}

// build extracts the model and writes pages, JSON files, assets and the
// manifest. Nothing is written when extraction fails.
func (p *pipeline) build(ctx context.Context) (*extractor.Result, *output.Written, error) {
	result, err := p.extract(ctx)
	if err != nil {
		return nil, nil, err
	}

	writer := output.NewWriter(output.Options{
		Dir:        p.cfg.Output.Dir,
		Assets:     p.cfg.Output.Assets,
		ModelJSON:  p.cfg.Output.ModelJSON,
		SearchJSON: p.cfg.Output.SearchJSON,
	}, p.formatter, p.logger.With("run_id", result.RunID))

	written, err := writer.Write(ctx, result.Model)
	if err != nil {
		return nil, nil, err
	}
	if err := writer.WriteManifest(output.NewManifest(result, written, Version)); err != nil {
		return nil, nil, err
	}

	return result, written, nil
}

// report lists the written files the way a user reads them.
func (p *pipeline) report(w io.Writer, written *output.Written) {
	for _, page := range written.Pages {
		fmt.Fprintf(w, "Generated: %s\n", filepath.Join(p.cfg.Output.Dir, page))
	}
	for _, asset := range written.Assets {
		fmt.Fprintf(w, "Copied: %s\n", filepath.Join(p.cfg.Output.Dir, asset))
	}
}
