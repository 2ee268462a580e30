// clone.go implements the "docshell clone" command for copying documents.
//
// Separated from file.go to isolate copy logic.
//
// Design: Clone always picks the destination name itself (base-copy.md,
// base-copy2.md, ...) rather than accepting one, so it can never clobber an
// existing document. Use mv afterwards if a specific name is wanted.
// Checkpoints are not copied; the clone starts with a clean history.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

// cloneResult contains the outcome of a clone operation.
type cloneResult struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *Extension) newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <path>",
		Short: "Clone a document",
		Long:  `Copy a document's stored content to a derived name (base-copy.md, base-copy2.md, ...).`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runClone,
	}
}

func (e *Extension) runClone(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]

	to, err := e.mgr.CloneDocument(ctx, p)

	log.Event("file:clone", "copy").
		Author(cmd.Author()).
		Path(p).
		Detail("to", to).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("clone %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Cloned %s -> %s\n", p, to)
	}
	return cmd.PrintJSON(cloneResult{From: p, To: to})
}
