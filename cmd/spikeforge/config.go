// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"spikeforge/internal/config"

	"github.com/spf13/cobra"
)

var (
	// configCmd groups configuration inspection subcommands.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the spikeforge configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println(TitleStyle.Render("Configuration"))
			fmt.Printf("  python_bin:        %s\n", cfg.PythonBin)
			fmt.Printf("  default_runtime:   %s\n", cfg.DefaultRuntime)
			fmt.Printf("  opener.command:    %s\n", orDefault(cfg.Opener.Command, "(platform default)"))
			fmt.Printf("  ui.verbose:        %t\n", cfg.UI.Verbose)
			fmt.Printf("  watch.debounce_ms: %d\n", cfg.Watch.DebounceMs)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
