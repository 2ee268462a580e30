// new.go implements the "docshell new" command for creating untitled documents.
//
// Separated from file.go to isolate name generation concerns.
//
// Design: New creates an empty document with a generated name (untitled.md,
// untitled-1.md, ...) rather than requiring a path upfront. The document can
// be renamed later with mv, matching how editors create untitled buffers.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

// newResult contains the outcome of a new operation.
type newResult struct {
	Path string `json:"path"`
}

func (e *Extension) newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [extension]",
		Short: "Create an untitled document",
		Long:  `Create an empty document with a generated name (untitled.md, untitled-1.md, ...). Pass a file extension to override the default.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  e.runNew,
	}
}

func (e *Extension) runNew(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ext := ".md"
	if len(args) > 0 {
		ext = args[0]
		if ext[0] != '.' {
			ext = "." + ext
		}
	}

	sess, err := e.mgr.NewUntitled(ctx, ext)

	var p string
	if sess != nil {
		p = sess.Path()
	}

	log.Event("file:new", "create").
		Author(cmd.Author()).
		Path(p).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("new: %w", err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Created %s\n", p)
	}
	return cmd.PrintJSON(newResult{Path: p})
}
