// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"spikeforge/pkg/forgefile"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd creates a new forgefile
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a starter forgefile in the current directory",
		Long: `Create a starter forgefile in the current directory.

The generated file declares the render task for the segment-tree spike
animation and a format task for the render script. Edit it to match
your project's file names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing forgefile")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := forgefile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := forgefile.GenerateDefault()

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Check the task declarations match your project")
	fmt.Println("  2. Run 'spikeforge' to render and open the animation")
	fmt.Println("  3. Run 'spikeforge watch' to re-render on every edit")

	return nil
}
