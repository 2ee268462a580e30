// mv.go implements the "docshell mv" command for renaming/moving documents.
//
// Separated from file.go to isolate move logic.
//
// Design: Mv updates the path in-place rather than creating a copy, so
// checkpoints follow the document to its new path. This matches Unix mv
// semantics. A live session follows the rename with its unsaved changes
// intact.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

// mvResult contains the outcome of a move operation.
type mvResult struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *Extension) newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <dest>",
		Short: "Move/rename a document",
		Long:  `Rename a document or move it to a new path. Checkpoints follow the document.`,
		Args:  cobra.ExactArgs(2),
		RunE:  e.runMv,
	}
}

func (e *Extension) runMv(c *cobra.Command, args []string) error {
	ctx := c.Context()
	src, dst := args[0], args[1]

	err := e.mgr.Rename(ctx, src, dst)

	log.Event("file:mv", "move").
		Author(cmd.Author()).
		Path(src).
		Detail("from", src).
		Detail("to", dst).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("mv %q to %q: %w", src, dst, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Moved %s -> %s\n", src, dst)
	}
	return cmd.PrintJSON(mvResult{From: src, To: dst})
}
