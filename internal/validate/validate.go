// Package validate provides input validation for the store layer.
//
// Validation happens at the store layer (not just the manager) because the
// store is the persistence boundary: anyone with direct store access
// (extensions, tests, future code paths) must have their inputs validated.
// Callers pass limits (MaxPath, MaxContent) via options structs.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/docshell/internal/path"
)

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrPathTooLong     = errors.New("path too long")
	ErrContentTooLarge = errors.New("content too large")
)

// Path validates a document path and returns the normalised form.
//
// Validation rules:
//   - Empty paths rejected (would create ambiguous root documents)
//   - Null bytes rejected (security: prevents path injection attacks)
//   - Max length enforced if maxLen > 0 (0 means no limit)
//   - Normalisation via path.Normalise (traversal, leading slashes, etc.)
func Path(p string, maxLen int) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: null byte in path", ErrInvalidPath)
	}
	if maxLen > 0 && len(p) > maxLen {
		return "", ErrPathTooLong
	}

	norm, err := path.Normalise(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return norm, nil
}

// Content validates document content size.
//
// Only size is checked, not format: docshell is format-agnostic and stores
// whatever text it is given. The limit prevents accidentally persisting
// huge files that would bloat the SQLite database.
func Content(content string, maxLen int64) error {
	if maxLen > 0 && int64(len(content)) > maxLen {
		return ErrContentTooLarge
	}
	return nil
}
