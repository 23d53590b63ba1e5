// SPDX-License-Identifier: MPL-2.0

// Package opener launches the platform image viewer on a rendered artifact.
//
// The behavior is deliberately asymmetric: on macOS the native `open`
// command runs synchronously and its exit code propagates, because `open`
// returns promptly after handing the file to the viewer. Everywhere else
// the opener (xdg-open by default) is started detached with its output
// discarded and launch failures swallowed, since on many desktops it
// blocks until the viewer exits and its diagnostics are noise.
package opener

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"

	"spikeforge/pkg/platform"

	"github.com/charmbracelet/log"
)

// Opener launches files with the platform's default application.
type Opener struct {
	// Command overrides the opener binary. Empty means the platform
	// default.
	Command string

	// GOOS overrides the host OS identifier. Empty means runtime.GOOS.
	// Used by tests to exercise both branches on one host.
	GOOS string

	// Logger receives a warn line when a detached launch fails. nil
	// disables logging.
	Logger *log.Logger
}

// Open launches the viewer on path. On darwin the call is synchronous and
// returns the opener's error; on other platforms it always returns nil.
func (o *Opener) Open(ctx context.Context, path string) error {
	name, args, detach := o.launch(path)

	if !detach {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		return nil
	}

	// Fire and forget: discard output, don't wait, swallow failures.
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		if o.Logger != nil {
			o.Logger.Warn("viewer launch failed", "command", name, "err", err)
		}
		return nil
	}
	// Reap the child in the background so it doesn't linger as a zombie
	// for the lifetime of the process.
	go func() { _ = cmd.Wait() }()
	return nil
}

// launch returns the command, arguments, and whether the launch is
// detached, for the configured host OS.
func (o *Opener) launch(path string) (name string, args []string, detach bool) {
	goos := o.GOOS
	if goos == "" {
		goos = goruntime.GOOS
	}

	switch goos {
	case platform.Darwin:
		name = "open"
		if o.Command != "" {
			name = o.Command
		}
		return name, []string{path}, false
	case platform.Windows:
		if o.Command != "" {
			return o.Command, []string{path}, true
		}
		// `start` is a cmd.exe builtin; the empty string is the window
		// title slot.
		return "cmd", []string{"/C", "start", "", path}, true
	default:
		name = "xdg-open"
		if o.Command != "" {
			name = o.Command
		}
		return name, []string{path}, true
	}
}
