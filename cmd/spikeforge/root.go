// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"spikeforge/internal/config"
	"spikeforge/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// forgeFile allows specifying a custom forgefile path
	forgeFile string

	// logger is the shared CLI logger. Level is raised to debug when
	// --verbose is set (see initRootConfig).
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "spikeforge",
	})

	// rootCmd represents the base command. Bare invocation runs the
	// default goal: build the artifact, then open it.
	rootCmd = &cobra.Command{
		Use:   "spikeforge",
		Short: "Build harness for the segment-tree spike visualization",
		Long: TitleStyle.Render("spikeforge") + SubtitleStyle.Render(" - build harness for the segment-tree spike visualization") + `

spikeforge is a small make-like task runner: it installs the Python
dependencies, runs the render script when its output is missing or
out of date, and opens the resulting animation.

Tasks are declared in a 'forgefile.cue' using CUE format. Targets are
rebuilt only when older than their sources.

` + SubtitleStyle.Render("Examples:") + `
  spikeforge                Render (if stale) and open the animation
  spikeforge render         Render only
  spikeforge open           Render if needed, then open the viewer
  spikeforge format         Reformat the render script in place
  spikeforge watch          Re-render whenever a source changes
  spikeforge run            List all tasks from the forgefile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(cmd.Context())
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/spikeforge/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&forgeFile, "file", "f", "", "forgefile to use (default is ./forgefile.cue)")

	// Add subcommands
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and environment variables.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors; defaults still apply.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay renders an error for the terminal, expanding
// ActionableError suggestions and, in verbose mode, the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}
