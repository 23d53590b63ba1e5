// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Tests mutate the package-level overrides, so they run serially and clean
// up through Reset.

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PythonBin != "python3" {
		t.Errorf("expected python3, got %q", cfg.PythonBin)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("expected native default runtime, got %q", cfg.DefaultRuntime)
	}
	if cfg.Opener.Command != "" {
		t.Errorf("expected empty opener command, got %q", cfg.Opener.Command)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	writeConfig(t, `
python_bin:      "python3.12"
default_runtime: "virtual"
opener: command: "feh"
watch: {
	debounce_ms: 250
	patterns: ["**/*.py"]
}
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PythonBin != "python3.12" {
		t.Errorf("expected python3.12, got %q", cfg.PythonBin)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("expected virtual, got %q", cfg.DefaultRuntime)
	}
	if cfg.Opener.Command != "feh" {
		t.Errorf("expected feh, got %q", cfg.Opener.Command)
	}
	if cfg.Watch.DebounceMs != 250 {
		t.Errorf("expected 250, got %d", cfg.Watch.DebounceMs)
	}
	if len(cfg.Watch.Patterns) != 1 || cfg.Watch.Patterns[0] != "**/*.py" {
		t.Errorf("unexpected patterns: %v", cfg.Watch.Patterns)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	writeConfig(t, `opener: command: "feh"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Opener.Command != "feh" {
		t.Errorf("expected feh, got %q", cfg.Opener.Command)
	}
	if cfg.PythonBin != "python3" {
		t.Errorf("unset fields fall back to defaults, got %q", cfg.PythonBin)
	}
}

func TestLoad_InvalidRuntime(t *testing.T) {
	writeConfig(t, `default_runtime: "container"`)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown runtime")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	writeConfig(t, `shell: "zsh"`)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown config field")
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))
	t.Cleanup(Reset)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when --config points at a missing file")
	}
}

func TestGet_FallsBackToDefaultsOnError(t *testing.T) {
	writeConfig(t, `default_runtime: "container"`)

	cfg := Get()
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("expected default fallback, got %q", cfg.DefaultRuntime)
	}
}

func TestGet_Caches(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	if Get() != Get() {
		t.Error("expected the same cached instance")
	}
}

func TestRuntimeMode_IsValid(t *testing.T) {
	t.Parallel()
	for _, m := range []RuntimeMode{RuntimeNative, RuntimeVirtual} {
		if ok, _ := m.IsValid(); !ok {
			t.Errorf("%q must be valid", m)
		}
	}
	ok, errs := RuntimeMode("container").IsValid()
	if ok {
		t.Fatal("unknown mode must be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidRuntimeMode) {
		t.Errorf("expected ErrInvalidRuntimeMode, got %v", errs)
	}
}

func TestValidate_NegativeDebounce(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Watch.DebounceMs = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigFilePath_UsesDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("unexpected path: %q", path)
	}
}
