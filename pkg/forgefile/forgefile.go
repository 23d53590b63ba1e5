// SPDX-License-Identifier: MPL-2.0

package forgefile

import "fmt"

// RuntimeName identifies which execution runtime runs a task's script.
type RuntimeName string

const (
	// RuntimeNative runs the script through the system shell.
	RuntimeNative RuntimeName = "native"
	// RuntimeVirtual runs the script through the embedded POSIX shell
	// (mvdan/sh), independent of what the host has installed.
	RuntimeVirtual RuntimeName = "virtual"
)

// IsValid reports whether the runtime name is one of the known runtimes.
// An empty name is valid and means "use the configured default".
func (r RuntimeName) IsValid() bool {
	switch r {
	case "", RuntimeNative, RuntimeVirtual:
		return true
	}
	return false
}

type (
	// Task is a single named unit of work.
	Task struct {
		// Name identifies the task. Must be unique within a forgefile.
		Name string `json:"name"`

		// Description is a one-line summary shown in task listings.
		Description string `json:"description,omitempty"`

		// Target is the file the task produces. A task with a target is
		// skipped when the target is newer than every source. A task without
		// a target always runs (phony semantics).
		Target string `json:"target,omitempty"`

		// Sources are the files whose modification times gate a rebuild.
		// Paths are relative to the forgefile's directory.
		Sources []string `json:"sources,omitempty"`

		// Script is the shell text executed when the task runs. Steps are
		// separated by newlines; the first failing step aborts the task.
		Script string `json:"script"`

		// Runtime selects the execution runtime. Empty means the configured
		// default.
		Runtime RuntimeName `json:"runtime,omitempty"`

		// DependsOn lists tasks that must complete before this one starts.
		DependsOn []string `json:"depends_on,omitempty"`
	}

	// Forgefile is a parsed task manifest.
	Forgefile struct {
		// Tasks are the declared tasks, in declaration order.
		Tasks []Task `json:"tasks"`

		// FilePath is the path the manifest was loaded from. Set by Parse;
		// not part of the CUE document.
		FilePath string `json:"-"`
	}
)

// IsPhony reports whether the task has no tracked target and therefore
// always runs.
func (t *Task) IsPhony() bool {
	return t.Target == ""
}

// Find returns the task with the given name, or nil if no such task exists.
func (f *Forgefile) Find(name string) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].Name == name {
			return &f.Tasks[i]
		}
	}
	return nil
}

// TaskNames returns the declared task names in declaration order.
func (f *Forgefile) TaskNames() []string {
	names := make([]string, len(f.Tasks))
	for i := range f.Tasks {
		names[i] = f.Tasks[i].Name
	}
	return names
}

// validate applies the Go-level checks that the CUE schema cannot express:
// name uniqueness and referential integrity of depends_on.
func (f *Forgefile) validate() error {
	seen := make(map[string]bool, len(f.Tasks))
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if seen[t.Name] {
			return fmt.Errorf("duplicate task name %q", t.Name)
		}
		seen[t.Name] = true

		if !t.Runtime.IsValid() {
			return fmt.Errorf("task %q: unknown runtime %q", t.Name, t.Runtime)
		}
	}

	for i := range f.Tasks {
		t := &f.Tasks[i]
		for _, dep := range t.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("task %q depends on undeclared task %q", t.Name, dep)
			}
			if dep == t.Name {
				return fmt.Errorf("task %q depends on itself", t.Name)
			}
		}
	}

	return nil
}
