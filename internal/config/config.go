// Package config provides configuration loading for iris-docs.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (IRISDOCS_*)
//  3. Config file (iris-docs.yaml, iris-docs.yml or iris-docs.json)
//  4. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: IRISDOCS_
//   - Nested fields: Use underscores (IRISDOCS_OUTPUT_DIR)
//   - Lists are comma separated (IRISDOCS_INPUT_PATTERNS="src/**/*.js,docs/*.md")
package config

import (
	"strings"
	"time"

	"github.com/sandrolain/iris-docs/internal/directive"
)

// Config represents the complete iris-docs configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Parse  ParseConfig  `yaml:"parse" mapstructure:"parse"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Run    RunConfig    `yaml:"run" mapstructure:"run"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// InputConfig defines which files are scanned for doc comments.
type InputConfig struct {
	Root     string   `yaml:"root" mapstructure:"root"`         // directory patterns are relative to
	Patterns []string `yaml:"patterns" mapstructure:"patterns"` // glob patterns for source files
	Ignore   []string `yaml:"ignore" mapstructure:"ignore"`     // glob patterns to ignore
}

// OutputConfig defines where and how the documentation is written.
type OutputConfig struct {
	Dir        string   `yaml:"dir" mapstructure:"dir"`                 // output directory
	Ext        string   `yaml:"ext" mapstructure:"ext"`                 // page extension, without dot
	Assets     []string `yaml:"assets" mapstructure:"assets"`           // files copied next to the pages
	ModelJSON  bool     `yaml:"model_json" mapstructure:"model_json"`   // write model.json
	SearchJSON bool     `yaml:"search_json" mapstructure:"search_json"` // write search-index.json
}

// ParseConfig controls how comment bodies are interpreted.
type ParseConfig struct {
	SplitCodeBlocks bool   `yaml:"split_code_blocks" mapstructure:"split_code_blocks"` // segment prose and fenced code
	DefaultCategory string `yaml:"default_category" mapstructure:"default_category"`   // "/" separated category path
}

// RenderConfig controls the built-in formatter.
type RenderConfig struct {
	ConvertMarkdown bool `yaml:"convert_markdown" mapstructure:"convert_markdown"` // render prose as markdown
}

// RunConfig controls the extraction pipeline.
type RunConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"` // 0 means GOMAXPROCS
}

// WatchConfig controls rebuild-on-change.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before a rebuild
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Root:     ".",
			Patterns: []string{},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
			},
		},
		Output: OutputConfig{
			Dir:        "docs",
			Ext:        "html",
			Assets:     []string{},
			ModelJSON:  false,
			SearchJSON: true,
		},
		Parse: ParseConfig{
			SplitCodeBlocks: true,
			DefaultCategory: "index",
		},
		Render: RenderConfig{
			ConvertMarkdown: true,
		},
		Run: RunConfig{
			Concurrency: 0,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// DefaultCategoryPath splits the configured default category into trimmed
// path components.
func (c *Config) DefaultCategoryPath() []string {
	return directive.SplitCategory(c.Parse.DefaultCategory)
}

// SetPatterns replaces the input patterns with a comma separated list, as
// given on the command line.
func (c *Config) SetPatterns(list string) {
	c.Input.Patterns = SplitList(list)
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(list string) []string {
	out := []string{}
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
