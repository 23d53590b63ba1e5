// SPDX-License-Identifier: MPL-2.0

// Package forgefile defines the task manifest format for spikeforge.
//
// A forgefile is a CUE document (conventionally "forgefile.cue") declaring
// the build tasks of a visualization project: each task names an optional
// target artifact, the source files whose timestamps gate a rebuild, the
// shell script to run, and any tasks that must run first. Parsing validates
// the document against an embedded CUE schema before decoding.
package forgefile
