// diff.go implements the "docshell diff" command for comparing content.
//
// Separated from file.go to isolate comparison logic.
//
// Design: Diff compares the stored document against a checkpoint (the most
// recent by default, or a specific one via --key). With --file it compares
// against a filesystem file instead, useful before importing external edits.

package file

import (
	"fmt"
	"os"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/diff"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <path>",
		Short: "Compare a document against a checkpoint or file",
		Long:  `Show the difference between a document's stored content and a checkpoint (most recent by default). Use --key for a specific checkpoint or -f for a filesystem file.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runDiff,
	}
	c.Flags().StringP(extension.FlagKey, "k", "", "Checkpoint key to compare against")
	c.Flags().StringP(extension.FlagFile, "f", "", "Filesystem file to compare against")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	key, _ := c.Flags().GetString(extension.FlagKey)
	file, _ := c.Flags().GetString(extension.FlagFile)

	doc, err := e.mgr.Contents().Get(ctx, p, true)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", p, err))
	}

	var oldContent, oldLabel string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read file %q: %w", file, err))
		}
		oldContent, oldLabel = string(data), file
	case key != "":
		cp, err := e.mgr.Contents().CheckpointByKey(ctx, key)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", p, err))
		}
		oldContent, oldLabel = cp.Content, fmt.Sprintf("%s@%s", p, cp.Key)
	default:
		cp, err := e.mgr.Contents().LastCheckpoint(ctx, p)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", p, err))
		}
		oldContent, oldLabel = cp.Content, fmt.Sprintf("%s@%s", p, cp.Key)
	}

	r := diff.Compute(oldContent, doc.Content, oldLabel, p)

	log.Event("file:diff", "compare").
		Author(cmd.Author()).
		Path(p).
		Key(key).
		Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(r)
	}

	colour := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Fprint(cmd.Out(), r.Format(colour))
	return nil
}
