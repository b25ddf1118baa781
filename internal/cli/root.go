package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandrolain/iris-docs/internal/docs"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
)

// rootCmd builds the documentation when called with patterns.
var rootCmd = &cobra.Command{
	Use:   "iris-docs [patterns]",
	Short: "Generate HTML documentation from doc comments",
	Long: `iris-docs extracts /*-- ... --*/ doc comments from source files and
generates a static documentation site.

Patterns are comma separated globs relative to the input root. They can also
be configured in iris-docs.yaml or with IRISDOCS_INPUT_PATTERNS.

Example:
  iris-docs "src/**/*.js,docs/*.md" -o site -a logo.svg`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runBuild,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration errors and 1 otherwise.
func exitCode(err error) int {
	if docs.KindOf(err) == docs.KindConfig {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./iris-docs.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and informational output")

	addOutputFlags(rootCmd)
}

// setupLogging installs the default structured logger on stderr.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}

	slog.SetDefault(newLogger(cmd, level))
	return nil
}

func newLogger(cmd *cobra.Command, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
