// Package importer brings filesystem files into the document store.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/docshell/internal/progress"
	"github.com/jpl-au/docshell/internal/store"
)

// Options configures an import operation.
type Options struct {
	Prefix string             // Target document path prefix
	Flat   bool               // Flatten directory structure
	Hidden bool               // Include hidden files/directories
	DryRun bool               // Show what would be imported without importing
	Write  store.WriteOptions // Size limits for the underlying writes
}

// Result contains the outcome of an import operation.
type Result struct {
	Imported int      `json:"imported"`
	Paths    []string `json:"paths"`
}

// Run executes the import operation. Directories are scanned recursively
// through os.Root so symlinks cannot escape the source tree. Document paths
// keep their file extensions.
func Run(ctx context.Context, w io.Writer, contents store.Contents, src string, opts Options) (Result, error) {
	var result Result

	info, err := os.Stat(src)
	if err != nil {
		return result, err
	}

	if !info.IsDir() {
		return importSingleFile(ctx, w, contents, src, opts)
	}

	root, err := os.OpenRoot(src)
	if err != nil {
		return result, fmt.Errorf("opening source root: %w", err)
	}
	defer root.Close()

	files, err := scanRoot(root, "", opts.Hidden)
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", src, err)
	}
	if len(files) == 0 {
		return result, nil
	}

	prog := progress.New("Importing", len(files))
	defer prog.Done()

	for _, rel := range files {
		path := calcDocPath(rel, opts.Prefix, opts.Flat)
		result.Paths = append(result.Paths, path)

		if opts.DryRun {
			fmt.Fprintf(w, "Would import: %s -> %s\n", filepath.Join(src, rel), path)
			prog.Increment()
			prog.Print()
			continue
		}

		content, err := readFileInRoot(root, rel)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", rel, err)
		}

		if err := contents.Put(ctx, path, content, opts.Write); err != nil {
			return result, fmt.Errorf("writing %s: %w", path, err)
		}

		prog.Increment()
		prog.Print()
		fmt.Fprintf(w, "Imported: %s -> %s\n", filepath.Join(src, rel), path)
		result.Imported++
	}

	return result, nil
}

// importSingleFile imports one file.
func importSingleFile(ctx context.Context, w io.Writer, contents store.Contents, file string, opts Options) (Result, error) {
	var result Result

	path := calcDocPath(filepath.Base(file), opts.Prefix, opts.Flat)
	result.Paths = append(result.Paths, path)

	if opts.DryRun {
		fmt.Fprintf(w, "Would import: %s -> %s\n", file, path)
		return result, nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", file, err)
	}

	if err := contents.Put(ctx, path, string(content), opts.Write); err != nil {
		return result, fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(w, "Imported: %s -> %s\n", file, path)
	result.Imported = 1
	return result, nil
}

// scanRoot recursively finds all regular files within an os.Root.
// Returns paths relative to the root.
func scanRoot(root *os.Root, dir string, includeHidden bool) ([]string, error) {
	var files []string

	path := dir
	if path == "" {
		path = "."
	}

	f, err := root.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()

		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		rel := name
		if dir != "" {
			rel = filepath.Join(dir, name)
		}

		if entry.IsDir() {
			subfiles, err := scanRoot(root, rel, includeHidden)
			if err != nil {
				return nil, err
			}
			files = append(files, subfiles...)
		} else if entry.Type().IsRegular() {
			files = append(files, rel)
		}
	}

	return files, nil
}

// readFileInRoot reads a file's content within an os.Root.
func readFileInRoot(root *os.Root, name string) (string, error) {
	f, err := root.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// calcDocPath calculates the document path for an imported file.
func calcDocPath(relPath, prefix string, flat bool) string {
	path := filepath.ToSlash(relPath)

	if flat {
		path = filepath.Base(path)
	}

	if prefix != "" {
		prefix = strings.TrimSuffix(prefix, "/")
		path = prefix + "/" + path
	}

	return path
}
