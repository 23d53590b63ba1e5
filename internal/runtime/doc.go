// SPDX-License-Identifier: MPL-2.0

// Package runtime executes task scripts.
//
// Two runtimes are available: native, which hands the script to the host
// system shell, and virtual, which interprets it with the embedded POSIX
// shell (mvdan/sh) and therefore works on hosts without a usable shell.
// Both run with errexit semantics so the first failing step aborts the
// script, matching make's fail-fast behavior.
package runtime
