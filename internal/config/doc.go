// SPDX-License-Identifier: MPL-2.0

// Package config loads the spikeforge user configuration.
//
// Configuration lives in a CUE file ("config.cue") in the platform config
// directory. Loading goes through viper: defaults are registered first, the
// CUE file (if present) is validated against an embedded schema and merged
// on top, then SPIKEFORGE_* environment variables override both.
package config
