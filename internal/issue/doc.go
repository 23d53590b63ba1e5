// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting: the ActionableError
// type with its ErrorContext builder for structured failure context, and a
// catalog of known issues rendered as markdown for the terminal.
package issue
