// SPDX-License-Identifier: MPL-2.0

// Package task resolves and runs forgefile tasks.
//
// A run request names one task; the engine expands its transitive
// depends_on entries into a topological execution order, skips any task
// whose target is newer than all of its sources, and executes the rest
// sequentially through the configured runtime. The first failure aborts
// the run and its exit code propagates to the caller.
package task
