// Package store provides the contents service: persistence for document
// content and checkpoints. Consumers (the document manager, sessions, the
// MCP server) depend on the Contents interface rather than the SQLite
// implementation, enabling testing with fakes and alternative backends.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Document is the stored state of one document: its current content plus
// timestamps. Historical states live in checkpoints.
type Document struct {
	ID        int64  // Database primary key (internal)
	Path      string // Document path (e.g., "docs/readme.md")
	Content   string // Current content
	CreatedAt int64  // Unix timestamp of creation
	UpdatedAt int64  // Unix timestamp of last save
}

// DocumentMeta contains document metadata without content.
// Use this for listings where content isn't needed.
type DocumentMeta struct {
	Path      string // Document path
	Size      int64  // Content length in bytes
	CreatedAt int64  // Unix timestamp of creation
	UpdatedAt int64  // Unix timestamp of last save
}

// Checkpoint is one immutable snapshot of a document's content.
type Checkpoint struct {
	ID        int64  // Database primary key (internal)
	Key       string // Unique 8-char identifier
	Path      string // Document path at snapshot time
	Content   string // Snapshot content
	Author    string // Who created the snapshot
	Message   string // Optional snapshot message
	CreatedAt int64  // Unix timestamp of creation
}

// CheckpointJSON is the API-friendly representation of a Checkpoint with a
// formatted timestamp and content omitted.
type CheckpointJSON struct {
	Key       string `json:"key"`
	Path      string `json:"path"`
	Author    string `json:"author,omitempty"`
	Message   string `json:"message,omitempty"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// ToJSON converts a Checkpoint to its API representation.
func (c *Checkpoint) ToJSON() CheckpointJSON {
	return CheckpointJSON{
		Key:       c.Key,
		Path:      c.Path,
		Author:    c.Author,
		Message:   c.Message,
		Size:      int64(len(c.Content)),
		CreatedAt: time.Unix(c.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// MarshalJSON encodes a value with indentation for human-readable output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteOptions carries validation limits for mutating operations.
type WriteOptions struct {
	MaxPath    int   // Max path length (0 = no limit)
	MaxContent int64 // Max content size in bytes (0 = no limit)
}

// CheckpointOptions configures checkpoint creation.
type CheckpointOptions struct {
	Author  string // Who is creating the checkpoint
	Message string // Optional message
	Max     int    // Per-document cap; older checkpoints are pruned (0 = unlimited)
}

// Contents is the contents-service contract consumed by the manager and
// sessions.
type Contents interface {
	// Close releases database resources. Always defer this after Open().
	Close() error

	// Get returns a document. When withContent is false the Content field
	// is left empty, which is cheaper for existence and metadata checks.
	// Returns ErrNotFound for unknown paths.
	Get(ctx context.Context, path string, withContent bool) (*Document, error)

	// Put saves content for a path, creating the document if needed.
	Put(ctx context.Context, path, content string, opts WriteOptions) error

	// NewUntitled creates an empty document with a generated name
	// (untitled.ext, untitled-1.ext, ...) and returns its path.
	NewUntitled(ctx context.Context, ext string) (string, error)

	// Rename moves a document from one path to another. Checkpoints
	// follow the document. Returns ErrAlreadyExists if the destination
	// is taken and ErrNotFound if the source is unknown.
	Rename(ctx context.Context, from, to string) error

	// Delete removes a document and all its checkpoints.
	// Returns ErrNotFound if the document doesn't exist.
	Delete(ctx context.Context, path string) error

	// Copy duplicates a document's current content to a new path.
	// Checkpoints are not copied. Returns ErrAlreadyExists if the
	// destination is taken.
	Copy(ctx context.Context, from, to string) error

	// Exists checks whether a document exists without fetching content.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns metadata for documents matching a path prefix,
	// ordered by path. Use "" for all documents.
	List(ctx context.Context, prefix string) ([]DocumentMeta, error)

	// CreateCheckpoint snapshots the document's current content and
	// returns the new checkpoint. Older checkpoints beyond opts.Max are
	// pruned. Returns ErrNotFound for unknown paths.
	CreateCheckpoint(ctx context.Context, path string, opts CheckpointOptions) (*Checkpoint, error)

	// Checkpoints returns a document's checkpoints, newest first.
	// Set limit to 0 for all of them. Content fields are not populated.
	Checkpoints(ctx context.Context, path string, limit int) ([]Checkpoint, error)

	// CheckpointByKey returns a specific checkpoint including content.
	// Returns ErrNotFound if no checkpoint has that key.
	CheckpointByKey(ctx context.Context, key string) (*Checkpoint, error)

	// LastCheckpoint returns the most recent checkpoint for a path,
	// including content. Returns ErrNotFound when the document has none.
	LastCheckpoint(ctx context.Context, path string) (*Checkpoint, error)

	// DB returns the underlying SQLite connection. Extensions use this
	// to create custom tables. Do not close it directly; use Close().
	DB() *sql.DB

	// WALCheckpoint flushes the WAL to the main database file, removing
	// the -wal and -shm files. Useful before backup or on shutdown.
	WALCheckpoint(ctx context.Context) error
}
