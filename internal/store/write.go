// write.go implements document creation and modification operations.
//
// Separated from the main store file to isolate mutating operations.
//
// Design: Multi-statement writes run inside transactions. Rename and delete
// move or remove checkpoints together with the document so a path never has
// orphaned snapshots.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/docshell/internal/validate"
)

// normalise validates and normalises a path with no length limit.
// Mutating operations that accept limits validate explicitly instead.
func normalise(p string) (string, error) {
	return validate.Path(p, 0)
}

// Put saves content for a path, creating the document at the current time
// if it doesn't exist yet.
func (s *SQLiteContents) Put(ctx context.Context, path, content string, opts WriteOptions) error {
	norm, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	if err := validate.Content(content, opts.MaxContent); err != nil {
		return err
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`, norm, content, now, now)
	if err != nil {
		return fmt.Errorf("put %s: %w", norm, err)
	}
	return nil
}

// NewUntitled creates an empty document with a generated name and returns
// its path. Names follow untitled.ext, untitled-1.ext, untitled-2.ext...
// The candidate scan and the insert share a transaction so concurrent
// callers cannot claim the same name.
func (s *SQLiteContents) NewUntitled(ctx context.Context, ext string) (string, error) {
	if ext == "" {
		ext = ".md"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var path string
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		for n := 0; ; n++ {
			candidate := "untitled" + ext
			if n > 0 {
				candidate = fmt.Sprintf("untitled-%d%s", n, ext)
			}

			var one int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE path = ?`, candidate).Scan(&one)
			if err == nil {
				continue // taken, try the next suffix
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("probe %s: %w", candidate, err)
			}

			now := time.Now().Unix()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO documents (path, content, created_at, updated_at)
				VALUES (?, '', ?, ?)
			`, candidate, now, now); err != nil {
				return fmt.Errorf("create %s: %w", candidate, err)
			}
			path = candidate
			return nil
		}
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Rename moves a document and its checkpoints to a new path.
func (s *SQLiteContents) Rename(ctx context.Context, from, to string) error {
	fromNorm, err := normalise(from)
	if err != nil {
		return err
	}
	toNorm, err := normalise(to)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE path = ?`, toNorm).Scan(&one); err == nil {
			return ErrAlreadyExists
		} else if err != sql.ErrNoRows {
			return fmt.Errorf("probe %s: %w", toNorm, err)
		}

		res, err := tx.ExecContext(ctx, `UPDATE documents SET path = ?, updated_at = ? WHERE path = ?`,
			toNorm, time.Now().Unix(), fromNorm)
		if err != nil {
			return fmt.Errorf("rename %s: %w", fromNorm, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rename %s: %w", fromNorm, err)
		}
		if rows == 0 {
			return ErrNotFound
		}

		// Checkpoints follow the document.
		if _, err := tx.ExecContext(ctx, `UPDATE checkpoints SET path = ? WHERE path = ?`, toNorm, fromNorm); err != nil {
			return fmt.Errorf("rename checkpoints for %s: %w", fromNorm, err)
		}
		return nil
	})
}

// Delete removes a document and all its checkpoints.
func (s *SQLiteContents) Delete(ctx context.Context, path string) error {
	norm, err := normalise(path)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, norm)
		if err != nil {
			return fmt.Errorf("delete %s: %w", norm, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete %s: %w", norm, err)
		}
		if rows == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM checkpoints WHERE path = ?`, norm); err != nil {
			return fmt.Errorf("delete checkpoints for %s: %w", norm, err)
		}
		return nil
	})
}

// Copy duplicates a document's current content to a new path. Checkpoints
// stay with the original.
func (s *SQLiteContents) Copy(ctx context.Context, from, to string) error {
	fromNorm, err := normalise(from)
	if err != nil {
		return err
	}
	toNorm, err := normalise(to)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE path = ?`, toNorm).Scan(&one); err == nil {
			return ErrAlreadyExists
		} else if err != sql.ErrNoRows {
			return fmt.Errorf("probe %s: %w", toNorm, err)
		}

		now := time.Now().Unix()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO documents (path, content, created_at, updated_at)
			SELECT ?, content, ?, ? FROM documents WHERE path = ?
		`, toNorm, now, now, fromNorm)
		if err != nil {
			return fmt.Errorf("copy %s: %w", fromNorm, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("copy %s: %w", fromNorm, err)
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}
