// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes scripts using the embedded mvdan/sh interpreter.
// It needs no shell on the host and is always available.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns whether this runtime is available.
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in.
	return true
}

// Validate parses the script to catch syntax errors before execution.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if strings.TrimSpace(ctx.Script) == "" {
		return fmt.Errorf("script has no content to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Execute runs the script in the embedded shell with errexit set.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	stdin, stdout, stderr := ctx.normalizeIO()

	env := append(os.Environ(), EnvToSlice(ctx.Env)...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(stdin, stdout, stderr),
		interp.Params("-e"),
	}
	if ctx.WorkDir != "" {
		opts = append(opts, interp.Dir(ctx.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	runCtx := ctx.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	if err := runner.Run(runCtx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &Result{ExitCode: ExitCode(status)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)}
	}

	return &Result{ExitCode: 0}
}
