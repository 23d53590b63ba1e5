// SPDX-License-Identifier: MPL-2.0

package config

import "sync"

var (
	mu sync.Mutex

	// cached is the process-wide configuration loaded by the first Get call.
	cached *Config

	// configDirOverride allows tests to override the config directory.
	// Necessary because os.UserHomeDir() doesn't reliably respect the HOME
	// environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride is set from the --config flag and bypasses the
	// directory lookup entirely.
	configFilePathOverride string
)

// Get returns the cached configuration, loading it on first use. Load
// failures fall back to defaults; callers that need the error use Load
// directly.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if cached != nil {
		return cached
	}

	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	cached = cfg
	return cached
}

// SetConfigFilePathOverride sets a custom config file path (from --config).
// Clears the cache so the next Get reloads.
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	configFilePathOverride = path
	cached = nil
}

// SetConfigDirOverride sets a custom config directory path. Primarily for
// tests, to bypass os.UserHomeDir().
func SetConfigDirOverride(dir string) {
	mu.Lock()
	defer mu.Unlock()
	configDirOverride = dir
	cached = nil
}

// Reset clears the cache and all overrides. Call from test cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configDirOverride = ""
	configFilePathOverride = ""
}
