package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file searched in the root directory.
const ConfigName = "iris-docs"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IRISDOCS"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
// A missing iris-docs config file there is not an error.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file, which must exist.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (IRISDOCS_*)
// 2. Config file
// 3. Default values
//
// Input patterns are not required here; callers merge command-line patterns
// and then call Validate.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., IRISDOCS_OUTPUT_DIR)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"input.root",
		"input.patterns",
		"input.ignore",
		"output.dir",
		"output.ext",
		"output.assets",
		"output.model_json",
		"output.search_json",
		"parse.split_code_blocks",
		"parse.default_category",
		"render.convert_markdown",
		"run.concurrency",
		"watch.debounce",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Input.Root == "" {
		cfg.Input.Root = "."
	}
	if !filepath.IsAbs(cfg.Input.Root) {
		cfg.Input.Root = filepath.Join(l.rootDir, cfg.Input.Root)
	}
	cfg.Output.Ext = strings.TrimPrefix(cfg.Output.Ext, ".")

	if err := ValidateSettings(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("input.root", defaults.Input.Root)
	v.SetDefault("input.patterns", defaults.Input.Patterns)
	v.SetDefault("input.ignore", defaults.Input.Ignore)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.ext", defaults.Output.Ext)
	v.SetDefault("output.assets", defaults.Output.Assets)
	v.SetDefault("output.model_json", defaults.Output.ModelJSON)
	v.SetDefault("output.search_json", defaults.Output.SearchJSON)

	v.SetDefault("parse.split_code_blocks", defaults.Parse.SplitCodeBlocks)
	v.SetDefault("parse.default_category", defaults.Parse.DefaultCategory)

	v.SetDefault("render.convert_markdown", defaults.Render.ConvertMarkdown)

	v.SetDefault("run.concurrency", defaults.Run.Concurrency)

	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
