// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile creates a file with the given mtime offset from a fixed base
// time. Explicit Chtimes avoids flakiness from coarse filesystem clocks.
func writeFile(t *testing.T, dir, name string, offset time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, base.Add(offset), base.Add(offset)); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestStale_MissingTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writeFile(t, dir, "illustrate.py", 0)

	stale, err := Stale(filepath.Join(dir, "out.gif"), []string{src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stale {
		t.Error("missing target must be stale")
	}
}

func TestStale_FreshTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writeFile(t, dir, "illustrate.py", 0)
	target := writeFile(t, dir, "out.gif", time.Hour)

	stale, err := Stale(target, []string{src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stale {
		t.Error("target newer than source must not be stale")
	}
}

func TestStale_OutdatedTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writeFile(t, dir, "illustrate.py", time.Hour)
	target := writeFile(t, dir, "out.gif", 0)

	stale, err := Stale(target, []string{src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stale {
		t.Error("target older than source must be stale")
	}
}

func TestStale_EqualTimestamps(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writeFile(t, dir, "illustrate.py", 0)
	target := writeFile(t, dir, "out.gif", 0)

	stale, err := Stale(target, []string{src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stale {
		t.Error("equal timestamps count as stale")
	}
}

func TestStale_AnyNewerSourceWins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	old := writeFile(t, dir, "requirements.txt", 0)
	fresh := writeFile(t, dir, "illustrate.py", 2*time.Hour)
	target := writeFile(t, dir, "out.gif", time.Hour)

	stale, err := Stale(target, []string{old, fresh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stale {
		t.Error("a single newer source must make the target stale")
	}
}

func TestStale_MissingSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := writeFile(t, dir, "out.gif", 0)
	missing := filepath.Join(dir, "illustrate.py")

	_, err := Stale(target, []string{missing})
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
	var srcErr *SourceMissingError
	if !errors.As(err, &srcErr) || srcErr.Path != missing {
		t.Errorf("expected SourceMissingError for %s, got %v", missing, err)
	}
}

func TestStale_MissingSourceWithMissingTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Stale(filepath.Join(dir, "out.gif"), []string{filepath.Join(dir, "illustrate.py")})
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing even when target is missing, got %v", err)
	}
}
