package repo

import (
	"os"
	"path/filepath"
	"strings"
)

// DBInfo describes a database found in a repository directory.
type DBInfo struct {
	Name string `json:"name"` // logical name ("" for default)
	File string `json:"file"` // filename on disk
	Size int64  `json:"size"` // bytes
}

// ListDBs returns the databases present in the repository, default first,
// the rest in directory order. With an empty dir the repository is
// discovered by walking up from the working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	repoDir := ""
	if dir != "" {
		repoDir = filepath.Join(dir, Dir)
	} else {
		var err error
		repoDir, err = DiscoverDir()
		if err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(repoDir)
	if err != nil {
		return nil, err
	}

	var dbs []DBInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".db") {
			continue
		}
		var logical string
		switch {
		case name == DBFile:
			logical = ""
		case strings.HasPrefix(name, "docshell-"):
			logical = strings.TrimSuffix(strings.TrimPrefix(name, "docshell-"), ".db")
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dbs = append(dbs, DBInfo{Name: logical, File: name, Size: info.Size()})
	}

	// Default database first.
	for i, d := range dbs {
		if d.Name == "" && i != 0 {
			dbs[0], dbs[i] = dbs[i], dbs[0]
			break
		}
	}
	return dbs, nil
}
