// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// RuntimeNative runs task scripts in the host system shell.
	// Defined locally to avoid coupling config to pkg/forgefile;
	// the task engine casts at the boundary.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs task scripts in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidConfig is the sentinel error wrapped by validation failures.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode specifies the execution runtime for task scripts.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not
	// recognized. It wraps ErrInvalidRuntimeMode for errors.Is() compatibility.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// OpenerConfig controls how the rendered artifact is opened.
	OpenerConfig struct {
		// Command overrides the platform opener binary. Empty means the
		// platform default ("open" on macOS, "xdg-open" elsewhere).
		Command string `mapstructure:"command"`
	}

	// UIConfig holds terminal output preferences.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// WatchConfig holds watch-mode tuning.
	WatchConfig struct {
		// DebounceMs is the quiet period in milliseconds before a change
		// batch triggers a re-render. Zero means the built-in default.
		DebounceMs int `mapstructure:"debounce_ms"`

		// Patterns are extra doublestar globs watched in addition to the
		// render task's declared sources.
		Patterns []string `mapstructure:"patterns"`
	}

	// Config is the root configuration.
	Config struct {
		// PythonBin is the Python interpreter exposed to task scripts as
		// $PYTHON.
		PythonBin string `mapstructure:"python_bin"`

		// DefaultRuntime is the runtime used by tasks that do not pick one.
		DefaultRuntime RuntimeMode `mapstructure:"default_runtime"`

		Opener OpenerConfig `mapstructure:"opener"`
		UI     UIConfig     `mapstructure:"ui"`
		Watch  WatchConfig  `mapstructure:"watch"`
	}
)

// Error implements the error interface.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (must be %q or %q)", e.Value, RuntimeNative, RuntimeVirtual)
}

// Unwrap returns ErrInvalidRuntimeMode so callers can use errors.Is.
func (e *InvalidRuntimeModeError) Unwrap() error { return ErrInvalidRuntimeMode }

// IsValid returns whether the RuntimeMode is recognized, and a list of
// validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	}
	return false, []error{&InvalidRuntimeModeError{Value: m}}
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		PythonBin:      "python3",
		DefaultRuntime: RuntimeNative,
	}
}

// Validate checks the configuration for values the schema cannot reject.
func (c *Config) Validate() error {
	if ok, errs := c.DefaultRuntime.IsValid(); !ok {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
