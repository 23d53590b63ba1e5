// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"spikeforge/pkg/platform"
)

// NativeRuntime executes scripts using the system's default shell.
type NativeRuntime struct {
	// Shell overrides the default shell lookup.
	Shell string
}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether a usable shell exists on this host.
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Validate checks if the script can be executed.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if strings.TrimSpace(ctx.Script) == "" {
		return fmt.Errorf("script has no content to execute")
	}
	if _, err := r.getShell(); err != nil {
		return err
	}
	return nil
}

// Execute runs the script through the system shell. POSIX shells run with
// errexit so the first failing step aborts the script.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	shell, err := r.getShell()
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	args := shellArgs(shell)
	args = append(args, ctx.Script)

	cmd := exec.CommandContext(ctx.Context, shell, args...)
	if ctx.WorkDir != "" {
		cmd.Dir = ctx.WorkDir
	}
	cmd.Env = append(os.Environ(), EnvToSlice(ctx.Env)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = ctx.normalizeIO()

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &Result{ExitCode: ExitCode(exitErr.ExitCode())}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to execute script: %w", err)}
	}

	return &Result{ExitCode: 0}
}

// getShell returns the shell binary to use.
func (r *NativeRuntime) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	if runtime.GOOS == platform.Windows {
		for _, candidate := range []string{"pwsh", "powershell", "cmd"} {
			if path, err := exec.LookPath(candidate); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("no shell found (tried pwsh, powershell, cmd)")
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		if path, err := exec.LookPath(shell); err == nil {
			return path, nil
		}
	}
	for _, candidate := range []string{"bash", "sh"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no shell found (tried $SHELL, bash, sh)")
}

// shellArgs returns the arguments that make the shell run a script string.
func shellArgs(shell string) []string {
	base := strings.ToLower(strings.TrimSuffix(shellBase(shell), ".exe"))
	switch base {
	case "cmd":
		return []string{"/C"}
	case "pwsh", "powershell":
		return []string{"-Command"}
	default:
		// POSIX shells: -e gives errexit, -c takes the script as an argument.
		return []string{"-e", "-c"}
	}
}

func shellBase(shell string) string {
	if idx := strings.LastIndexAny(shell, `/\`); idx >= 0 {
		return shell[idx+1:]
	}
	return shell
}
