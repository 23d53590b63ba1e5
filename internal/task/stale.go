// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"fmt"
	"os"
)

// ErrSourceMissing is the sentinel error wrapped by SourceMissingError.
var ErrSourceMissing = errors.New("source file missing")

// SourceMissingError is returned when a task's declared source file does
// not exist, making staleness undecidable.
type SourceMissingError struct {
	Path string
}

// Error implements the error interface.
func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("source file missing: %s", e.Path)
}

// Unwrap returns ErrSourceMissing so callers can use errors.Is.
func (e *SourceMissingError) Unwrap() error { return ErrSourceMissing }

// Stale reports whether target must be regenerated: true when the target is
// missing or any source has a modification time at or after the target's.
// A missing source is an error. Equal timestamps count as stale because
// coarse filesystem clocks can hide a later write behind an equal mtime.
func Stale(target string, sources []string) (bool, error) {
	targetInfo, err := os.Stat(target)
	if os.IsNotExist(err) {
		// Check sources exist even when the target is missing, so a broken
		// task declaration fails loudly instead of at script time.
		for _, src := range sources {
			if _, srcErr := os.Stat(src); os.IsNotExist(srcErr) {
				return false, &SourceMissingError{Path: src}
			} else if srcErr != nil {
				return false, fmt.Errorf("stat source %s: %w", src, srcErr)
			}
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat target %s: %w", target, err)
	}

	targetTime := targetInfo.ModTime()
	for _, src := range sources {
		srcInfo, err := os.Stat(src)
		if os.IsNotExist(err) {
			return false, &SourceMissingError{Path: src}
		}
		if err != nil {
			return false, fmt.Errorf("stat source %s: %w", src, err)
		}
		if !srcInfo.ModTime().Before(targetTime) {
			return true, nil
		}
	}

	return false, nil
}
