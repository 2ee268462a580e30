package log

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Use temp directory for test database
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	defer func() { dbPathFunc = origDBPath }()

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		// Verify database file exists
		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/test/project/.docshell")

		Log(Entry{
			Source:  "file:open",
			Author:  "test-user",
			Action:  "open",
			Path:    "docs/readme.md",
			Success: true,
		})

		// Verify entry was written
		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM log").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var source, action, path string
		var success int
		err = db.QueryRow("SELECT source, action, path, success FROM log WHERE id = 1").
			Scan(&source, &action, &path, &success)
		require.NoError(t, err)
		assert.Equal(t, "file:open", source)
		assert.Equal(t, "open", action)
		assert.Equal(t, "docs/readme.md", path)
		assert.Equal(t, 1, success)
	})

	t.Run("builder records error", func(t *testing.T) {
		// Reset global for clean test
		Close()

		err := Open()
		require.NoError(t, err)
		defer Close()

		Event("file:rm", "delete").
			Author("test-user").
			Path("missing.md").
			Write(errors.New("document not found"))

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg string
		err = db.QueryRow("SELECT success, error FROM log ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "document not found", errMsg)
	})

	t.Run("builder records checkpoint keys", func(t *testing.T) {
		Close()

		err := Open()
		require.NoError(t, err)
		defer Close()

		Event("file:checkpoint", "checkpoint").
			Path("notes.md").
			ResultKey("abc12345").
			Detail("message", "before refactor").
			Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var resultKey, detail string
		err = db.QueryRow("SELECT result_key, detail FROM log ORDER BY id DESC LIMIT 1").
			Scan(&resultKey, &detail)
		require.NoError(t, err)
		assert.Equal(t, "abc12345", resultKey)
		assert.Contains(t, detail, "before refactor")
	})

	t.Run("log without open is a no-op", func(t *testing.T) {
		Close()
		// Must not panic
		Log(Entry{Source: "file:open", Action: "open"})
	})
}
