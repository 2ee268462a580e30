// checkpoint.go implements the "docshell checkpoint" command group.
//
// Separated from file.go to isolate snapshot concerns: creating checkpoints,
// listing them, and showing a specific one.
//
// Design: Checkpoints are immutable snapshots of the stored content,
// identified by an 8-char key that survives renames. Creation prunes the
// oldest checkpoints beyond the configured per-document cap.

package file

import (
	"fmt"
	"time"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newCheckpointCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage document checkpoints",
		Long:  `Create, list, and inspect immutable snapshots of a document's stored content.`,
	}
	c.AddCommand(e.newCheckpointCreateCmd())
	c.AddCommand(e.newCheckpointLsCmd())
	c.AddCommand(e.newCheckpointShowCmd())
	return c
}

func (e *Extension) newCheckpointCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: "Snapshot a document's stored content",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCheckpointCreate,
	}
}

func (e *Extension) runCheckpointCreate(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]

	cp, err := e.mgr.Contents().CreateCheckpoint(ctx, p, store.CheckpointOptions{
		Author:  cmd.Author(),
		Message: cmd.Message(),
		Max:     e.cfg.MaxCheckpoints(),
	})

	l := log.Event("checkpoint:create", "snapshot").
		Author(cmd.Author()).
		Path(p)
	if cp != nil {
		l = l.ResultKey(cp.Key)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("checkpoint %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Checkpoint %s created for %s\n", cp.Key, p)
	}
	return cmd.PrintJSON(cp.ToJSON())
}

func (e *Extension) newCheckpointLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls <path>",
		Short: "List a document's checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCheckpointLs,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit number of checkpoints (0 = all)")
	return c
}

func (e *Extension) runCheckpointLs(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	cps, err := e.mgr.Contents().Checkpoints(ctx, p, limit)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("checkpoint ls %q: %w", p, err))
	}

	if !cmd.JSON() {
		if len(cps) == 0 {
			fmt.Fprintf(cmd.Out(), "No checkpoints for %s\n", p)
			return nil
		}
		for _, cp := range cps {
			ts := time.Unix(cp.CreatedAt, 0).UTC().Format("2006-01-02 15:04")
			line := fmt.Sprintf("%s  %s  %s", cp.Key, ts, cp.Author)
			if cp.Message != "" {
				line += "  " + cp.Message
			}
			fmt.Fprintln(cmd.Out(), line)
		}
		return nil
	}

	out := make([]store.CheckpointJSON, 0, len(cps))
	for i := range cps {
		out = append(out, cps[i].ToJSON())
	}
	return cmd.PrintJSON(out)
}

func (e *Extension) newCheckpointShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Print a checkpoint's content",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCheckpointShow,
	}
}

func (e *Extension) runCheckpointShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	key := args[0]

	cp, err := e.mgr.Contents().CheckpointByKey(ctx, key)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("checkpoint show %q: %w", key, err))
	}

	if cmd.JSON() {
		j := cp.ToJSON()
		return cmd.PrintJSON(struct {
			store.CheckpointJSON
			Content string `json:"content"`
		}{j, cp.Content})
	}

	fmt.Fprint(cmd.Out(), cp.Content)
	return nil
}
