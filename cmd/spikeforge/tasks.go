// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"spikeforge/internal/config"
	"spikeforge/internal/opener"
	"spikeforge/internal/runtime"

	"github.com/spf13/cobra"
)

var (
	renderForce bool

	// renderCmd regenerates the target artifact when it is missing or
	// older than its sources.
	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Install deps and render the animation if out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context())
		},
	}

	// openCmd renders if needed and then launches the platform viewer.
	openCmd = &cobra.Command{
		Use:   "open",
		Short: "Render if needed, then open the animation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context())
		},
	}

	// formatCmd rewrites the render script in place. No tracked output, so
	// it always runs.
	formatCmd = &cobra.Command{
		Use:   "format",
		Short: "Reformat the render script in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ff, err := loadForgefile()
			if err != nil {
				return err
			}
			return runTask(cmd.Context(), newEngine(ff, false), "format")
		},
	}

	// allCmd is the default goal: render, then open.
	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Render and open (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(cmd.Context())
		},
	}
)

func init() {
	renderCmd.Flags().BoolVarP(&renderForce, "force", "B", false, "render even if the target is up to date")
}

func runRender(ctx context.Context) error {
	ff, err := loadForgefile()
	if err != nil {
		return err
	}

	engine := newEngine(ff, renderForce)

	stale, err := engine.Stale(renderTaskName)
	if err != nil {
		return err
	}
	if !stale && !renderForce {
		fmt.Printf("%s %s is up to date\n", SuccessStyle.Render("✓"), engine.TargetPath(renderTaskName))
		return nil
	}

	if err := runTask(ctx, engine, renderTaskName); err != nil {
		return err
	}
	fmt.Printf("%s rendered %s\n", SuccessStyle.Render("✓"), engine.TargetPath(renderTaskName))
	return nil
}

func runOpen(ctx context.Context) error {
	ff, err := loadForgefile()
	if err != nil {
		return err
	}

	engine := newEngine(ff, false)
	if err := runTask(ctx, engine, renderTaskName); err != nil {
		return err
	}

	target := engine.TargetPath(renderTaskName)
	if target == "" {
		return fmt.Errorf("task %q declares no target to open", renderTaskName)
	}

	cfg := config.Get()
	o := &opener.Opener{
		Command: cfg.Opener.Command,
		Logger:  logger,
	}

	logger.Debug("opening artifact", "path", target)
	if err := o.Open(ctx, target); err != nil {
		// Darwin branch: the native opener ran synchronously, reflect its
		// exit code.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: runtime.ExitCode(exitErr.ExitCode()), Err: err}
		}
		return err
	}
	return nil
}

func runAll(ctx context.Context) error {
	return runOpen(ctx)
}
