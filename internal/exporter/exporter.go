// Package exporter writes stored documents out to the filesystem.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/docshell/internal/progress"
	"github.com/jpl-au/docshell/internal/store"
)

// Options configures an export operation.
type Options struct {
	Key   string // Export a specific checkpoint's content (single document only)
	Force bool   // Overwrite existing files
}

// Result contains the outcome of an export operation.
type Result struct {
	Exported int      `json:"exported"`
	Paths    []string `json:"paths"`
}

// Run executes the export operation.
// If path ends with "/" (or is empty) it exports all documents with that
// prefix, preserving their relative layout under dst. Otherwise it exports
// a single document.
func Run(ctx context.Context, w io.Writer, contents store.Contents, path, dst string, opts Options) (Result, error) {
	if path == "" || strings.HasSuffix(path, "/") {
		if opts.Key != "" {
			return Result{}, errors.New("checkpoint key only applies to single-document exports")
		}
		return exportPrefix(ctx, w, contents, strings.TrimSuffix(path, "/"), dst, opts)
	}
	return exportSingle(ctx, w, contents, path, dst, opts)
}

// exportSingle exports one document (or one of its checkpoints).
// Uses os.Root for safe path handling, consistent with exportPrefix.
func exportSingle(ctx context.Context, w io.Writer, contents store.Contents, docPath, dst string, opts Options) (Result, error) {
	var result Result

	content, err := getContent(ctx, contents, docPath, opts.Key)
	if err != nil {
		return result, err
	}

	outPath, dir, name := calcSingleOutputPath(dst, docPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return result, fmt.Errorf("creating directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return result, fmt.Errorf("opening destination: %w", err)
	}
	defer root.Close()

	if err := writeFileInRoot(root, name, content, opts.Force); err != nil {
		return result, err
	}

	result.Exported = 1
	result.Paths = []string{outPath}
	fmt.Fprintf(w, "Exported: %s -> %s\n", docPath, outPath)

	return result, nil
}

// exportPrefix exports all documents matching a prefix. Document paths keep
// their stored layout relative to the prefix.
func exportPrefix(ctx context.Context, w io.Writer, contents store.Contents, pfx, dst string, opts Options) (Result, error) {
	var result Result

	docs, err := contents.List(ctx, pfx)
	if err != nil {
		return result, err
	}
	if len(docs) == 0 {
		return result, fmt.Errorf("no documents found with prefix: %s", pfx)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return result, fmt.Errorf("creating destination directory: %w", err)
	}

	root, err := os.OpenRoot(dst)
	if err != nil {
		return result, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	prog := progress.New("Exporting", len(docs))
	defer prog.Done()

	for _, d := range docs {
		outName := calcRelativePath(d.Path, pfx)

		content, err := getContent(ctx, contents, d.Path, "")
		if err != nil {
			return result, fmt.Errorf("getting %s: %w", d.Path, err)
		}

		if err := writeFileInRoot(root, outName, content, opts.Force); err != nil {
			return result, err
		}

		prog.Increment()
		prog.Print()
		outPath := filepath.Join(dst, outName)
		result.Paths = append(result.Paths, outPath)
		result.Exported++
		fmt.Fprintf(w, "Exported: %s -> %s\n", d.Path, outPath)
	}

	return result, nil
}

// getContent retrieves document content, or a checkpoint's content when a
// key is given.
func getContent(ctx context.Context, contents store.Contents, path, key string) (string, error) {
	if key != "" {
		cp, err := contents.CheckpointByKey(ctx, key)
		if err != nil {
			return "", err
		}
		return cp.Content, nil
	}
	doc, err := contents.Get(ctx, path, true)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// calcSingleOutputPath determines where a single document lands: inside dst
// when dst is an existing directory, at dst itself otherwise.
func calcSingleOutputPath(dst, docPath string) (fullPath, dir, name string) {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		name = filepath.Base(docPath)
		return filepath.Join(dst, name), dst, name
	}
	return dst, filepath.Dir(dst), filepath.Base(dst)
}

// calcRelativePath strips the prefix from a document path.
func calcRelativePath(docPath, prefix string) string {
	if prefix == "" {
		return docPath
	}
	rel := strings.TrimPrefix(docPath, prefix+"/")
	if rel == docPath {
		rel = strings.TrimPrefix(docPath, prefix)
	}
	return rel
}

// writeFileInRoot writes content to a file within an os.Root, preventing
// path traversal outside the destination. Creates parent directories as
// needed.
func writeFileInRoot(root *os.Root, name, content string, force bool) error {
	if !force {
		if _, err := root.Stat(name); err == nil {
			return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
		}
	}

	dir := filepath.Dir(name)
	if dir != "." && dir != "" {
		if err := mkdirAllInRoot(root, dir); err != nil {
			return err
		}
	}

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

// mkdirAllInRoot creates a directory and all parents within an os.Root.
func mkdirAllInRoot(root *os.Root, path string) error {
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	for i := range parts {
		dir := filepath.Join(parts[:i+1]...)
		if err := root.Mkdir(dir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return nil
}
