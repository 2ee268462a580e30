// rm.go implements the "docshell rm" command for deleting documents.
//
// Separated from file.go to isolate deletion logic.
//
// Design: Rm is a hard delete - the document and all its checkpoints are
// removed. Any live session on the path is disposed first, so a dirty
// session cannot outlive its document.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

// rmResult contains the outcome of a delete operation.
type rmResult struct {
	Path string `json:"path"`
}

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a document",
		Long:  `Delete a document and all its checkpoints. Any open session on the path is closed first.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runRm,
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]

	err := e.mgr.DeleteFile(ctx, p)

	log.Event("file:rm", "delete").
		Author(cmd.Author()).
		Path(p).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rm %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Deleted %s\n", p)
	}
	return cmd.PrintJSON(rmResult{Path: p})
}
