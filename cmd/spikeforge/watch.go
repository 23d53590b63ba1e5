// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"spikeforge/internal/config"
	"spikeforge/internal/watch"

	"github.com/spf13/cobra"
)

var (
	watchNoClear bool

	// watchCmd re-runs the render task whenever one of its sources
	// changes. Staleness still applies, so a save that doesn't touch a
	// tracked source is a no-op.
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever a source file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context())
		},
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchNoClear, "no-clear", false, "do not clear the screen between runs")
}

func runWatch(ctx context.Context) error {
	ff, err := loadForgefile()
	if err != nil {
		return err
	}

	renderTask := ff.Find(renderTaskName)
	if renderTask == nil {
		return fmt.Errorf("forgefile declares no %q task to watch", renderTaskName)
	}

	cfg := config.Get()

	// Watch the render task's declared sources plus any configured extras.
	// The target itself never matches, so a finished render doesn't
	// retrigger the watcher.
	patterns := make([]string, 0, len(renderTask.Sources)+len(cfg.Watch.Patterns))
	for _, src := range renderTask.Sources {
		patterns = append(patterns, filepath.ToSlash(src))
	}
	patterns = append(patterns, cfg.Watch.Patterns...)

	engine := newEngine(ff, false)

	w, err := watch.New(watch.Config{
		Patterns:    patterns,
		Debounce:    time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		ClearScreen: !watchNoClear,
		BaseDir:     filepath.Dir(ff.FilePath),
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Debug("sources changed", "files", changed)
			if err := runTask(ctx, engine, renderTaskName); err != nil {
				// Keep watching after a failed render; the error has
				// already been reported on the script's stderr.
				fmt.Println(ErrorStyle.Render("✗") + " render failed, waiting for changes")
				return nil
			}
			fmt.Printf("%s rendered %s\n", SuccessStyle.Render("✓"), engine.TargetPath(renderTaskName))
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Println(SubtitleStyle.Render("Watching for changes... (ctrl-c to stop)"))
	return w.Run(ctx)
}
