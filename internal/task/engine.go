// SPDX-License-Identifier: MPL-2.0

package task

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"spikeforge/internal/runtime"
	"spikeforge/pkg/forgefile"

	"github.com/charmbracelet/log"
)

type (
	// RunError reports a task that ran and failed. The exit code is the
	// failing script's, so the CLI can propagate it to the process exit.
	RunError struct {
		Task     string
		ExitCode runtime.ExitCode
		Cause    error
	}

	// Options configures an Engine.
	Options struct {
		// DefaultRuntime is used by tasks that do not declare a runtime.
		DefaultRuntime forgefile.RuntimeName

		// Env holds extra environment variables exposed to every task
		// script (e.g., PYTHON).
		Env map[string]string

		// Force runs tasks even when their targets are fresh.
		Force bool

		// Stdout and Stderr are the streams handed to task scripts. nil
		// values default to the process streams.
		Stdout, Stderr io.Writer

		// Logger receives debug lines about staleness decisions and script
		// invocations. nil disables logging.
		Logger *log.Logger
	}

	// Engine runs tasks from a forgefile.
	Engine struct {
		ff       *forgefile.Forgefile
		registry *runtime.Registry
		opts     Options
		baseDir  string
	}
)

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("task %q failed: %v", e.Task, e.Cause)
	}
	return fmt.Sprintf("task %q failed with exit code %d", e.Task, e.ExitCode)
}

// Unwrap returns the underlying cause, if any.
func (e *RunError) Unwrap() error { return e.Cause }

// NewEngine creates an Engine for the given forgefile. Task paths (targets,
// sources, working directory) resolve relative to the forgefile's directory.
func NewEngine(ff *forgefile.Forgefile, registry *runtime.Registry, opts Options) *Engine {
	if opts.DefaultRuntime == "" {
		opts.DefaultRuntime = forgefile.RuntimeNative
	}
	return &Engine{
		ff:       ff,
		registry: registry,
		opts:     opts,
		baseDir:  filepath.Dir(ff.FilePath),
	}
}

// Plan returns the execution order for the named task: its transitive
// dependencies first, the task itself last. Returns CycleError when
// depends_on entries form a cycle.
func (e *Engine) Plan(name string) ([]string, error) {
	root := e.ff.Find(name)
	if root == nil {
		return nil, fmt.Errorf("task %q not found", name)
	}

	// Collect the reachable subgraph; the forgefile may declare tasks
	// unrelated to this run.
	reachable := make(map[string]bool)
	var visit func(t *forgefile.Task)
	visit = func(t *forgefile.Task) {
		if reachable[t.Name] {
			return
		}
		reachable[t.Name] = true
		for _, dep := range t.DependsOn {
			visit(e.ff.Find(dep))
		}
	}
	visit(root)

	g := newGraph()
	// Iterate declaration order for deterministic plans.
	for i := range e.ff.Tasks {
		t := &e.ff.Tasks[i]
		if !reachable[t.Name] {
			continue
		}
		g.addNode(t.Name)
		for _, dep := range t.DependsOn {
			g.addEdge(dep, t.Name)
		}
	}

	return g.topologicalSort()
}

// Run executes the named task and its dependencies in plan order. Fresh
// tasks (target newer than all sources) are skipped unless Force is set.
// The first failure aborts the run and is returned as a *RunError.
func (e *Engine) Run(ctx context.Context, name string) error {
	plan, err := e.Plan(name)
	if err != nil {
		return err
	}

	for _, taskName := range plan {
		t := e.ff.Find(taskName)

		run, err := e.shouldRun(t)
		if err != nil {
			return err
		}
		if !run {
			e.logf("target fresh, skipping", "task", t.Name, "target", t.Target)
			continue
		}

		if err := e.runOne(ctx, t); err != nil {
			return err
		}
	}

	return nil
}

// Stale reports whether the named task would run: phony tasks always run,
// target-backed tasks run when the target is missing or out of date.
func (e *Engine) Stale(name string) (bool, error) {
	t := e.ff.Find(name)
	if t == nil {
		return false, fmt.Errorf("task %q not found", name)
	}
	return e.shouldRun(t)
}

// TargetPath returns the named task's target resolved against the
// forgefile's directory. Empty for phony tasks.
func (e *Engine) TargetPath(name string) string {
	t := e.ff.Find(name)
	if t == nil || t.Target == "" {
		return ""
	}
	return e.abs(t.Target)
}

func (e *Engine) shouldRun(t *forgefile.Task) (bool, error) {
	if e.opts.Force || t.IsPhony() {
		return true, nil
	}

	sources := make([]string, len(t.Sources))
	for i, src := range t.Sources {
		sources[i] = e.abs(src)
	}
	return Stale(e.abs(t.Target), sources)
}

func (e *Engine) runOne(ctx context.Context, t *forgefile.Task) error {
	rtName := t.Runtime
	if rtName == "" {
		rtName = e.opts.DefaultRuntime
	}

	runner, err := e.registry.Get(rtName)
	if err != nil {
		return &RunError{Task: t.Name, ExitCode: 1, Cause: err}
	}

	execCtx := &runtime.ExecutionContext{
		Context: ctx,
		Script:  t.Script,
		WorkDir: e.baseDir,
		Env:     e.opts.Env,
		Stdout:  e.opts.Stdout,
		Stderr:  e.opts.Stderr,
	}

	if err := runner.Validate(execCtx); err != nil {
		return &RunError{Task: t.Name, ExitCode: 1, Cause: err}
	}

	e.logf("running task", "task", t.Name, "runtime", runner.Name())

	result := runner.Execute(execCtx)
	if result.Error != nil {
		return &RunError{Task: t.Name, ExitCode: 1, Cause: result.Error}
	}
	if !result.ExitCode.IsSuccess() {
		return &RunError{Task: t.Name, ExitCode: result.ExitCode}
	}

	e.logf("task completed", "task", t.Name)
	return nil
}

func (e *Engine) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.baseDir, path)
}

func (e *Engine) logf(msg string, kvs ...any) {
	if e.opts.Logger != nil {
		e.opts.Logger.Debug(msg, kvs...)
	}
}
