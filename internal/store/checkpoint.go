// checkpoint.go implements document checkpoint operations.
//
// Separated because checkpoints have a different lifecycle than documents:
// they are immutable once created, referenced by stable 8-char keys that
// survive renames, and pruned to a per-document cap rather than deleted
// individually.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateCheckpoint snapshots the document's current content. When opts.Max
// is set, older checkpoints beyond the cap are pruned in the same
// transaction so the cap can never be observed exceeded.
func (s *SQLiteContents) CreateCheckpoint(ctx context.Context, path string, opts CheckpointOptions) (*Checkpoint, error) {
	norm, err := normalise(path)
	if err != nil {
		return nil, err
	}

	var cp *Checkpoint
	err = s.Tx(ctx, func(tx *sql.Tx) error {
		var content string
		err := tx.QueryRowContext(ctx, `SELECT content FROM documents WHERE path = ?`, norm).Scan(&content)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", norm, err)
		}

		key, err := genID()
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO checkpoints (key, path, content, author, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, key, norm, content, opts.Author, opts.Message, now)
		if err != nil {
			return fmt.Errorf("checkpoint %s: %w", norm, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("checkpoint %s: %w", norm, err)
		}

		if opts.Max > 0 {
			_, err = tx.ExecContext(ctx, `
				DELETE FROM checkpoints WHERE path = ? AND id NOT IN (
					SELECT id FROM checkpoints WHERE path = ?
					ORDER BY created_at DESC, id DESC LIMIT ?
				)
			`, norm, norm, opts.Max)
			if err != nil {
				return fmt.Errorf("prune checkpoints for %s: %w", norm, err)
			}
		}

		cp = &Checkpoint{
			ID:        id,
			Key:       key,
			Path:      norm,
			Content:   content,
			Author:    opts.Author,
			Message:   opts.Message,
			CreatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// Checkpoints returns a document's checkpoints, newest first, without
// content. Set limit to 0 for all of them.
func (s *SQLiteContents) Checkpoints(ctx context.Context, path string, limit int) ([]Checkpoint, error) {
	norm, err := normalise(path)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, key, path, author, message, created_at
		FROM checkpoints WHERE path = ? ORDER BY created_at DESC, id DESC`
	args := []any{norm}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("checkpoints for %s: %w", norm, err)
	}
	defer rows.Close()

	var cps []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		if err := rows.Scan(&cp.ID, &cp.Key, &cp.Path, &cp.Author, &cp.Message, &cp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		cps = append(cps, cp)
	}
	return cps, rows.Err()
}

// CheckpointByKey returns a specific checkpoint, content included.
func (s *SQLiteContents) CheckpointByKey(ctx context.Context, key string) (*Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, key, path, content, author, message, created_at
		FROM checkpoints WHERE key = ?
	`, key)
	return scanCheckpoint(row)
}

// LastCheckpoint returns the most recent checkpoint for a path, content included.
func (s *SQLiteContents) LastCheckpoint(ctx context.Context, path string) (*Checkpoint, error) {
	norm, err := normalise(path)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, key, path, content, author, message, created_at
		FROM checkpoints WHERE path = ?
		ORDER BY created_at DESC, id DESC LIMIT 1
	`, norm)
	return scanCheckpoint(row)
}

func scanCheckpoint(row *sql.Row) (*Checkpoint, error) {
	cp := &Checkpoint{}
	err := row.Scan(&cp.ID, &cp.Key, &cp.Path, &cp.Content, &cp.Author, &cp.Message, &cp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan checkpoint: %w", err)
	}
	return cp, nil
}
