// Package path provides document path normalisation and validation utilities.
//
// All document paths in docshell pass through this package before storage or
// retrieval. Validation ensures paths are safe for database storage and for
// any filesystem mirroring an embedder might add.
//
// Security: Path traversal attacks are blocked by rejecting any path
// containing "..".
//
// Normalisation rules:
//   - Paths use forward slashes (Windows-compatible)
//   - No leading or trailing slashes
//   - No "." or ".." components
//   - Empty paths are rejected
//   - Extensions are preserved; untitled documents are named by the store
package path

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalid indicates the provided document path is invalid.
var ErrInvalid = errors.New("invalid document path")

// ErrTooLong indicates the document path exceeds the configured maximum length.
var ErrTooLong = errors.New("document path too long")

// Normalise cleans and validates a document path.
// It ensures paths use forward slashes, have no leading/trailing slashes,
// and contain no directory traversal sequences.
func Normalise(p string) (string, error) {
	if p == "" {
		return "", ErrInvalid
	}

	p = filepath.Clean(p)
	p = filepath.ToSlash(p)

	// Remove leading/trailing slashes (must be after ToSlash for Windows)
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")

	if p == "" || p == "." || p == ".." {
		return "", ErrInvalid
	}

	if strings.Contains(p, "..") {
		return "", ErrInvalid
	}

	return p, nil
}

// Split returns the path without its extension, and the extension itself
// (including the dot, or "" when the final element has none). Used for
// deriving clone names like "notes-copy.md" from "notes.md".
func Split(p string) (stem, ext string) {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	dot := strings.LastIndex(base, ".")
	if dot <= 0 { // no extension, or a dotfile like ".env"
		return p, ""
	}
	cut := len(p) - (len(base) - dot)
	return p[:cut], p[cut:]
}

// Direct reports whether path is a direct child of prefix.
// Both paths should use forward slashes. The prefix is normalised
// (backslashes converted, trailing slash removed) to handle raw user input.
func Direct(path, prefix string) bool {
	prefix = filepath.ToSlash(prefix)
	prefix = strings.TrimSuffix(prefix, "/")

	if path == prefix {
		return true
	}

	var remainder string
	if prefix == "" {
		remainder = path
	} else if strings.HasPrefix(path, prefix+"/") {
		remainder = path[len(prefix)+1:]
	} else {
		return false
	}

	return !strings.Contains(remainder, "/")
}
