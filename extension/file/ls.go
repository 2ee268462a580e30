// ls.go implements the "docshell ls" command for listing documents.
//
// Separated from file.go to isolate listing and formatting logic.
//
// Design: Ls mimics Unix ls. The -l flag shows metadata (size, update time);
// the default output is paths only for easy piping.

package file

import (
	"fmt"
	"time"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/glob"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [prefix|pattern]",
		Short: "List documents",
		Long: `List all documents, optionally filtered by path prefix or glob pattern.

  docshell ls docs/          # prefix
  docshell ls 'docs/*.md'    # glob (quote to avoid shell expansion)
  docshell ls 'docs/**'      # any depth under docs/`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLs,
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with metadata")
	return c
}

// lsEntry is the JSON representation of one listed document.
type lsEntry struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updated_at"`
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ctx := c.Context()
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	long, _ := c.Flags().GetBool(extension.FlagLong)

	// Glob patterns list everything and match per-path; plain strings
	// go to the store as a prefix.
	prefix := filter
	if glob.Meta(filter) {
		prefix = ""
	}

	docs, err := e.mgr.Contents().List(ctx, prefix)
	if err == nil && glob.Meta(filter) {
		docs, err = matchDocs(docs, filter)
	}

	log.Event("file:ls", "list").
		Author(cmd.Author()).
		Path(filter).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls %q: %w", filter, err))
	}

	if !cmd.JSON() {
		for _, d := range docs {
			if long {
				ts := time.Unix(d.UpdatedAt, 0).UTC().Format("2006-01-02 15:04")
				fmt.Fprintf(cmd.Out(), "%8d  %s  %s\n", d.Size, ts, d.Path)
			} else {
				fmt.Fprintln(cmd.Out(), d.Path)
			}
		}
		return nil
	}

	return cmd.PrintJSON(toLsEntries(docs))
}

func matchDocs(docs []store.DocumentMeta, pattern string) ([]store.DocumentMeta, error) {
	out := docs[:0]
	for _, d := range docs {
		ok, err := glob.Match(pattern, d.Path)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func toLsEntries(docs []store.DocumentMeta) []lsEntry {
	out := make([]lsEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, lsEntry{
			Path:      d.Path,
			Size:      d.Size,
			UpdatedAt: time.Unix(d.UpdatedAt, 0).UTC().Format(time.RFC3339),
		})
	}
	return out
}
