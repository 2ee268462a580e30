// read.go implements document retrieval operations for the SQLite store.
//
// Separated from the main store file to isolate read-only query logic. These
// operations never modify data, enabling clearer reasoning about side effects.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the document at the given path. When withContent is false the
// content column is skipped, which keeps metadata checks cheap for large
// documents.
func (s *SQLiteContents) Get(ctx context.Context, path string, withContent bool) (*Document, error) {
	norm, err := normalise(path)
	if err != nil {
		return nil, err
	}

	if !withContent {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, path, created_at, updated_at FROM documents WHERE path = ?`, norm)
		doc := &Document{}
		if err := row.Scan(&doc.ID, &doc.Path, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("get %s: %w", norm, err)
		}
		return doc, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, content, created_at, updated_at FROM documents WHERE path = ?`, norm)
	doc := &Document{}
	if err := row.Scan(&doc.ID, &doc.Path, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", norm, err)
	}
	return doc, nil
}

// Exists checks document existence without fetching content.
func (s *SQLiteContents) Exists(ctx context.Context, path string) (bool, error) {
	norm, err := normalise(path)
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE path = ?`, norm).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", norm, err)
	}
	return true, nil
}

// List returns metadata for documents matching a path prefix, ordered by path.
func (s *SQLiteContents) List(ctx context.Context, prefix string) ([]DocumentMeta, error) {
	query := `SELECT path, LENGTH(content), created_at, updated_at FROM documents`
	var args []any
	if prefix != "" {
		query += ` WHERE path LIKE ?`
		args = append(args, prefix+"%")
	}
	query += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	defer rows.Close()

	var metas []DocumentMeta
	for rows.Next() {
		var m DocumentMeta
		if err := rows.Scan(&m.Path, &m.Size, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
