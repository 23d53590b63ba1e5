// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS identification constants shared across the
// codebase. The harness branches on the host OS in exactly two places
// (viewer launch and shell selection); both compare runtime.GOOS against
// these constants instead of scattering string literals.
package platform
