// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration) from business logic. This is the only file that imports
// the SQLite driver, making it easier to swap implementations if needed.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// WAL allows concurrent readers during writes (critical for the MCP server,
// where sessions read while tools write). The 5-second busy timeout prevents
// "database is locked" errors without waiting forever on stuck connections.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"fmt"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteContents implements Contents using SQLite with WAL mode for
// concurrent access.
type SQLiteContents struct {
	db   *sql.DB
	path string
}

// Compile-time interface compliance check. This ensures SQLiteContents
// implements the full Contents interface. If a method is missing or has the
// wrong signature, the build fails immediately with a clear error, rather
// than failing at runtime when the method is called.
var _ Contents = (*SQLiteContents)(nil)

// Open opens the SQLite database file at `path` and returns a configured
// SQLiteContents. The caller should call Close on the returned store.
func Open(path string) (*SQLiteContents, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode: allows concurrent readers while writing. Without this,
	// readers block writers and vice versa. Trade-off: creates -wal and
	// -shm files alongside the database.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Busy timeout: how long to wait when another connection holds a lock.
	// Most operations complete in milliseconds; 5 seconds prevents
	// "database is locked" errors without waiting forever.
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Synchronous NORMAL: with WAL mode, NORMAL is safe against corruption
	// (WAL provides the durability guarantee). FULL would fsync on every
	// commit, which is ~10x slower.
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	return &SQLiteContents{db: db, path: path}, nil
}

// Path returns the filesystem path of the database file.
func (s *SQLiteContents) Path() string {
	return s.path
}

// Init creates the schema if it doesn't exist. Safe to call on every open.
func (s *SQLiteContents) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection.
func (s *SQLiteContents) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for extension tables.
func (s *SQLiteContents) DB() *sql.DB {
	return s.db
}

// Tx runs fn within a transaction, committing on nil and rolling back on error.
func (s *SQLiteContents) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// WALCheckpoint writes all WAL data back to the main database file and
// truncates the WAL. This removes the -wal and -shm files. Called on
// graceful shutdown of long-running hosts.
func (s *SQLiteContents) WALCheckpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// genID creates a unique 8-character identifier using crypto/rand.
// Used for checkpoint keys to enable direct lookups that survive renames.
func genID() (string, error) {
	b := make([]byte, 5) // 5 bytes = 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}
