// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for parsing CUE documents against
// embedded schemas. Both the forgefile manifest and the user configuration
// file go through the same three-step flow: compile the schema, compile the
// user data, then unify, validate, and decode into a Go struct.
package cueutil
