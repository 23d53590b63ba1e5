// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestDefaultIgnores_ReturnsCopy(t *testing.T) {
	t.Parallel()
	ignores := DefaultIgnores()
	if len(ignores) == 0 {
		t.Fatal("expected built-in ignore patterns")
	}
	ignores[0] = "mutated"
	if DefaultIgnores()[0] == "mutated" {
		t.Error("DefaultIgnores must return a copy")
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()
	_, err := New(Config{
		BaseDir:  t.TempDir(),
		Patterns: []string{"[invalid"},
	})
	if err == nil {
		t.Fatal("expected error for invalid watch pattern")
	}

	_, err = New(Config{
		BaseDir: t.TempDir(),
		Ignore:  []string{"[invalid"},
	})
	if err == nil {
		t.Fatal("expected error for invalid ignore pattern")
	}
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()
	w, err := New(Config{BaseDir: t.TempDir(), Ignore: []string{"build/**"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		rel  string
		want bool
	}{
		{"illustrate.py", false},
		{".git/HEAD", true},
		{"src/.git/config", true},
		{"__pycache__/mod.pyc", true},
		{"illustrate.py.swp", true},
		{".DS_Store", true},
		{"build/out.gif", true},
		{"segment-tree-spikes.gif", false},
	}

	for _, tt := range tests {
		if got := w.isIgnored(tt.rel); got != tt.want {
			t.Errorf("isIgnored(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestMatchesPatterns(t *testing.T) {
	t.Parallel()
	w, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"*.py", "requirements.txt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		rel  string
		want bool
	}{
		{"illustrate.py", true},
		{"requirements.txt", true},
		{"notes.md", false},
	}
	for _, tt := range tests {
		if got := w.matchesPatterns(tt.rel); got != tt.want {
			t.Errorf("matchesPatterns(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestMatchesPatterns_EmptyMatchesAll(t *testing.T) {
	t.Parallel()
	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.matchesPatterns("anything.txt") {
		t.Error("no patterns must match everything")
	}
}

func TestRun_DebouncedCallback(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var (
		mu      sync.Mutex
		changed []string
	)
	fired := make(chan struct{}, 1)

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: []string{"*.py"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, paths []string) error {
			mu.Lock()
			changed = append(changed, paths...)
			mu.Unlock()
			select {
			case fired <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// A burst of writes inside the debounce window coalesces to one callback.
	path := filepath.Join(dir, "illustrate.py")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("# rev"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}

	mu.Lock()
	got := slices.Clone(changed)
	mu.Unlock()
	if !slices.Contains(got, "illustrate.py") {
		t.Errorf("expected illustrate.py in changed set, got %v", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v on cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_IgnoresNonMatchingFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	fired := make(chan []string, 1)
	w, err := New(Config{
		BaseDir:  dir,
		Patterns: []string{"*.py"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, paths []string) error {
			select {
			case fired <- paths:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-fired:
		t.Errorf("callback fired for non-matching file: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestRun_CalledTwice(t *testing.T) {
	t.Parallel()
	w, err := New(Config{
		BaseDir: t.TempDir(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the first Run a moment to claim the started flag.
	time.Sleep(20 * time.Millisecond)
	if err := w.Run(ctx); err == nil {
		t.Error("second Run must fail")
	}

	cancel()
	<-done
}
