// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"spikeforge/internal/config"
	"spikeforge/internal/issue"
	"spikeforge/internal/runtime"
	"spikeforge/internal/task"
	"spikeforge/pkg/forgefile"
)

// renderTaskName is the task the open/watch commands depend on.
const renderTaskName = "render"

// forgefilePath returns the manifest path: the --file flag when set,
// otherwise the conventional name in the working directory.
func forgefilePath() string {
	if forgeFile != "" {
		return forgeFile
	}
	return forgefile.DefaultFileName
}

// loadForgefile parses the manifest, wrapping failures with actionable
// context.
func loadForgefile() (*forgefile.Forgefile, error) {
	path := forgefilePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, issue.NewErrorContext().
			WithOperation("load forgefile").
			WithResource(path).
			WithSuggestion("Run 'spikeforge init' to create a starter forgefile").
			WithSuggestion("Use --file to point at a forgefile elsewhere").
			Wrap(err).
			BuildError()
	}

	ff, err := forgefile.Parse(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load forgefile").
			WithResource(path).
			WithSuggestion("Check the CUE syntax near the reported location").
			Wrap(err).
			BuildError()
	}
	return ff, nil
}

// newEngine builds a task engine wired to the user configuration.
func newEngine(ff *forgefile.Forgefile, force bool) *task.Engine {
	cfg := config.Get()
	return task.NewEngine(ff, runtime.NewRegistry(), task.Options{
		DefaultRuntime: forgefile.RuntimeName(cfg.DefaultRuntime),
		Env: map[string]string{
			"PYTHON": cfg.PythonBin,
		},
		Force:  force,
		Logger: logger,
	})
}

// runTask executes one task (plus dependencies) and converts failures into
// ExitError so the script's exit code reaches the process exit.
func runTask(ctx context.Context, engine *task.Engine, name string) error {
	err := engine.Run(ctx, name)
	if err == nil {
		return nil
	}

	var runErr *task.RunError
	if errors.As(err, &runErr) {
		if verbose {
			printIssue(issueForTask(runErr.Task))
		}
		return &ExitError{Code: runErr.ExitCode, Err: runErr}
	}
	var srcErr *task.SourceMissingError
	if errors.As(err, &srcErr) && verbose {
		printIssue(issue.SourceMissingId)
	}
	return err
}

// issueForTask maps a failing task to its catalog entry.
func issueForTask(name string) issue.Id {
	switch name {
	case renderTaskName:
		return issue.RenderFailedId
	default:
		return issue.InstallFailedId
	}
}

// printIssue renders a catalog entry to stderr. Rendering failures are
// ignored; the ActionableError text has already been shown.
func printIssue(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	out, err := entry.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, out)
}
