// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"spikeforge/pkg/forgefile"
)

type (
	// ExecutionContext carries everything a runtime needs to run a script.
	ExecutionContext struct {
		// Context cancels the script's processes when done.
		Context context.Context

		// Script is the shell text to execute.
		Script string

		// WorkDir is the working directory. Empty means the current
		// directory.
		WorkDir string

		// Env holds extra environment variables layered over the process
		// environment.
		Env map[string]string

		// Stdin, Stdout, Stderr are the script's standard streams. nil
		// values default to the process streams.
		Stdin          io.Reader
		Stdout, Stderr io.Writer
	}

	// Result is the outcome of a script execution.
	Result struct {
		// ExitCode is the script's exit status. Zero on success.
		ExitCode ExitCode

		// Error is set for failures to launch or infrastructure errors,
		// not for scripts that ran and exited non-zero.
		Error error
	}

	// Runner executes a script in some runtime.
	Runner interface {
		// Name returns the runtime name as used in forgefiles.
		Name() string

		// Available reports whether this runtime can execute on this host.
		Available() bool

		// Validate checks the execution context without running anything.
		Validate(ctx *ExecutionContext) error

		// Execute runs the script and returns its result.
		Execute(ctx *ExecutionContext) *Result
	}

	// Registry holds the known runtimes keyed by name.
	Registry struct {
		runners map[forgefile.RuntimeName]Runner
	}
)

// Failed reports whether the result is a failure, either an infrastructure
// error or a non-zero exit.
func (r *Result) Failed() bool {
	return r.Error != nil || !r.ExitCode.IsSuccess()
}

// NewRegistry returns a Registry with the built-in runtimes registered.
func NewRegistry() *Registry {
	return &Registry{
		runners: map[forgefile.RuntimeName]Runner{
			forgefile.RuntimeNative:  NewNativeRuntime(),
			forgefile.RuntimeVirtual: NewVirtualRuntime(),
		},
	}
}

// Get returns the runner for the given runtime name.
func (r *Registry) Get(name forgefile.RuntimeName) (Runner, error) {
	runner, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("unknown runtime %q", name)
	}
	if !runner.Available() {
		return nil, fmt.Errorf("runtime %q is not available on this host", name)
	}
	return runner, nil
}

// normalizeIO fills unset streams with the process defaults.
func (ctx *ExecutionContext) normalizeIO() (io.Reader, io.Writer, io.Writer) {
	stdin := ctx.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := ctx.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdin, stdout, stderr
}

// EnvToSlice converts an environment map to sorted KEY=VALUE form.
// Sorting keeps process invocations deterministic for tests.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
