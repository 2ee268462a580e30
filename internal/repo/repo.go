// Package repo provides repository initialisation and discovery for docshell.
//
// A docshell repository is a .docshell directory containing a SQLite
// database. This package handles:
//   - Initialising new repositories (creating .docshell/ and the database)
//   - Discovering existing repositories by walking up the directory tree
//   - Managing multiple named databases (docshell.db, docshell-notes.db, etc.)
//
// The discovery algorithm mirrors git's approach: starting from the current
// directory, walk up until a .docshell directory containing the target
// database is found, or the filesystem root is reached.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/docshell/internal/store"
)

const (
	// Dir is the directory name for the docshell repository.
	Dir = ".docshell"
	// DBFile is the default database filename.
	DBFile = "docshell.db"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "docshell.db".
// A name like "notes" returns "docshell-notes.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "docshell-" + name + ".db"
}

// ErrNotInitialised is returned when no docshell repository is found.
var ErrNotInitialised = errors.New("docshell not initialised (run 'docshell init')")

// Init initialises a new docshell repository.
//
// Following the git model, init only creates the database. Config is a
// separate concern managed via "docshell config".
//
// Parameters:
//   - force: reinitialise existing repository
//   - db: database name (empty for default "docshell.db")
//   - dir: target directory (empty for current directory)
func Init(force bool, db string, dir string) error {
	if dir == "" {
		dir = "."
	}
	repoDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(repoDir, DBFileName(db))

	// Check if already exists
	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	return nil
}

// Discover walks up the directory tree looking for a .docshell database.
// The db parameter specifies which database to find (empty for default).
// Returns the full path to the database if found.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DiscoverDir finds the .docshell directory, walking up the tree.
// Returns the full path to the .docshell directory.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		repoDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(repoDir); err == nil && info.IsDir() {
			return repoDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// Open discovers (or takes an explicit dir for) the repository database,
// opens it, and ensures the schema exists. The common entry point for
// commands and the MCP server.
func Open(db, dir string) (*store.SQLiteContents, error) {
	var dbPath string
	if dir != "" {
		dbPath = filepath.Join(dir, Dir, DBFileName(db))
		if _, err := os.Stat(dbPath); err != nil {
			return nil, ErrNotInitialised
		}
	} else {
		var err error
		dbPath, err = Discover(db)
		if err != nil {
			return nil, err
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
