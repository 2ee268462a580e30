// revert.go implements the "docshell revert" command for restoring checkpoints.
//
// Separated from file.go to isolate restore logic.
//
// Design: Revert writes the checkpoint content back as the stored document.
// With --key it restores a specific checkpoint; without, the most recent one.
// A live session on the path picks up the restored content through the
// manager, so its dirty state stays coherent.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/path"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/spf13/cobra"
)

// revertResult contains the outcome of a revert operation.
type revertResult struct {
	Path string `json:"path"`
	Key  string `json:"key"`
}

func (e *Extension) newRevertCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "revert <path>",
		Short: "Revert a document to a checkpoint",
		Long:  `Restore a document's content from a checkpoint. Defaults to the most recent checkpoint; use --key for a specific one.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runRevert,
	}
	c.Flags().StringP(extension.FlagKey, "k", "", "Checkpoint key (8-char identifier)")
	return c
}

func (e *Extension) runRevert(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	key, _ := c.Flags().GetString(extension.FlagKey)

	var cp *store.Checkpoint
	var err error
	if key != "" {
		cp, err = e.mgr.Contents().CheckpointByKey(ctx, key)
		if err == nil {
			// A key from another document must not overwrite this one.
			norm, nerr := path.Normalise(p)
			if nerr != nil {
				err = nerr
			} else if cp.Path != norm {
				err = fmt.Errorf("%w: %s belongs to %s", store.ErrCheckpointMismatch, key, cp.Path)
			}
		}
	} else {
		cp, err = e.mgr.Contents().LastCheckpoint(ctx, p)
	}

	l := log.Event("file:revert", "restore").
		Author(cmd.Author()).
		Path(p).
		Key(key)

	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("revert %q: %w", p, err))
	}

	err = e.mgr.SaveContent(ctx, p, cp.Content)
	l.ResultKey(cp.Key).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("revert %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Reverted %s to checkpoint %s\n", p, cp.Key)
	}
	return cmd.PrintJSON(revertResult{Path: p, Key: cp.Key})
}
