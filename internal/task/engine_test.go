// SPDX-License-Identifier: MPL-2.0

package task

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"spikeforge/internal/runtime"
	"spikeforge/pkg/forgefile"
)

// newTestEngine builds an engine over an in-memory forgefile rooted in a
// temp dir. Tasks use the virtual runtime so tests don't depend on the
// host shell.
func newTestEngine(t *testing.T, dir string, tasks []forgefile.Task, opts Options) *Engine {
	t.Helper()
	for i := range tasks {
		if tasks[i].Runtime == "" {
			tasks[i].Runtime = forgefile.RuntimeVirtual
		}
	}
	ff := &forgefile.Forgefile{
		Tasks:    tasks,
		FilePath: filepath.Join(dir, "forgefile.cue"),
	}
	return NewEngine(ff, runtime.NewRegistry(), opts)
}

func TestPlan_DependenciesFirst(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "publish", Script: "true", DependsOn: []string{"render"}},
		{Name: "render", Script: "true", DependsOn: []string{"deps"}},
		{Name: "deps", Script: "true"},
		{Name: "unrelated", Script: "true"},
	}, Options{})

	plan, err := engine.Plan("publish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"deps", "render", "publish"}
	if !slices.Equal(plan, expected) {
		t.Errorf("expected %v, got %v", expected, plan)
	}
}

func TestPlan_ExcludesUnreachableTasks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "render", Script: "true"},
		{Name: "unrelated", Script: "true"},
	}, Options{})

	plan, err := engine.Plan("render")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(plan, []string{"render"}) {
		t.Errorf("expected [render], got %v", plan)
	}
}

func TestPlan_CycleDetected(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "a", Script: "true", DependsOn: []string{"b"}},
		{Name: "b", Script: "true", DependsOn: []string{"a"}},
	}, Options{})

	_, err := engine.Plan("a")
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
}

func TestPlan_UnknownTask(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "render", Script: "true"},
	}, Options{})

	if _, err := engine.Plan("nope"); err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func TestRun_CreatesTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "illustrate.py"), []byte("# src"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(t, dir, []forgefile.Task{
		{
			Name:    "render",
			Target:  "out.gif",
			Sources: []string{"illustrate.py"},
			Script:  "echo frame > out.gif",
		},
	}, Options{})

	if err := engine.Run(context.Background(), "render"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.gif")); err != nil {
		t.Errorf("target not created: %v", err)
	}
}

func TestRun_SkipsFreshTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "illustrate.py")
	target := filepath.Join(dir, "out.gif")
	if err := os.WriteFile(src, []byte("# src"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("frame"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Target strictly newer than the source.
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(target, base.Add(time.Hour), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	// The script would clobber a marker file if it ran.
	engine := newTestEngine(t, dir, []forgefile.Task{
		{
			Name:    "render",
			Target:  "out.gif",
			Sources: []string{"illustrate.py"},
			Script:  "echo ran > marker.txt",
		},
	}, Options{})

	if err := engine.Run(context.Background(), "render"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker.txt")); !os.IsNotExist(err) {
		t.Error("fresh target must skip script execution")
	}
}

func TestRun_ForceRunsFreshTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "illustrate.py")
	target := filepath.Join(dir, "out.gif")
	if err := os.WriteFile(src, []byte("# src"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("frame"), 0o644); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(target, base.Add(time.Hour), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(t, dir, []forgefile.Task{
		{
			Name:    "render",
			Target:  "out.gif",
			Sources: []string{"illustrate.py"},
			Script:  "echo ran > marker.txt",
		},
	}, Options{Force: true})

	if err := engine.Run(context.Background(), "render"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
		t.Error("force must run the script even with a fresh target")
	}
}

func TestRun_PhonyTaskAlwaysRuns(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "format", Script: "echo formatted > marker.txt"},
	}, Options{})

	for i := 0; i < 2; i++ {
		if err := os.Remove(filepath.Join(dir, "marker.txt")); err != nil && !os.IsNotExist(err) {
			t.Fatal(err)
		}
		if err := engine.Run(context.Background(), "format"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
			t.Fatalf("run %d: phony task must always run", i)
		}
	}
}

func TestRun_FailureAbortsChain(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "render", Script: "echo rendered > marker.txt", DependsOn: []string{"deps"}},
		{Name: "deps", Script: "exit 3"},
	}, Options{})

	err := engine.Run(context.Background(), "render")
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *RunError, got %v", err)
	}
	if runErr.Task != "deps" {
		t.Errorf("expected failing task deps, got %q", runErr.Task)
	}
	if runErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", runErr.ExitCode)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "marker.txt")); !os.IsNotExist(statErr) {
		t.Error("downstream task must not run after a dependency failure")
	}
}

func TestRun_FirstFailingStepAborts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var stdout bytes.Buffer
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "render", Script: "echo before\nexit 1\necho after"},
	}, Options{Stdout: &stdout})

	err := engine.Run(context.Background(), "render")
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *RunError, got %v", err)
	}
	if got := stdout.String(); got != "before\n" {
		t.Errorf("errexit must stop after the failing step; stdout = %q", got)
	}
}

func TestRun_ExposesEnv(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{Name: "show", Script: "echo $PYTHON > python.txt"},
	}, Options{Env: map[string]string{"PYTHON": "python3.12"}})

	if err := engine.Run(context.Background(), "show"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "python.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "python3.12\n" {
		t.Errorf("expected PYTHON env var in script, got %q", data)
	}
}

func TestRun_MissingSourceFailsLoudly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	engine := newTestEngine(t, dir, []forgefile.Task{
		{
			Name:    "render",
			Target:  "out.gif",
			Sources: []string{"illustrate.py"},
			Script:  "echo frame > out.gif",
		},
	}, Options{})

	err := engine.Run(context.Background(), "render")
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}
