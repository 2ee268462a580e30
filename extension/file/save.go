// save.go implements the "docshell save" command for writing document content.
//
// Separated from file.go to isolate input handling (stdin, argument, file).
//
// Design: Save accepts content from multiple sources in priority order:
// 1. Direct argument (for short content)
// 2. File flag (for existing files)
// 3. Stdin (for piping)
// The --as flag writes under a new path, leaving the original untouched.

package file

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

// saveResult contains the outcome of a save operation.
type saveResult struct {
	Path string `json:"path"`
}

func (e *Extension) newSaveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "save <path> [content]",
		Short: "Save a document",
		Long:  `Create or update a document. Content from argument, stdin, or -f flag. Use --as to save under a different path.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  e.runSave,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read content from file")
	c.Flags().String(extension.FlagAs, "", "Save under a different path (original untouched)")
	return c
}

func (e *Extension) runSave(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	var content string

	file, _ := c.Flags().GetString(extension.FlagFile)
	switch {
	case len(args) >= 2:
		content = args[1]
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read file %q: %w", file, err))
		}
		content = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read stdin: %w", err))
		}
		content = string(data)
	}

	// --as retargets the write without touching the original path.
	target := p
	if as, _ := c.Flags().GetString(extension.FlagAs); as != "" {
		target = as
	}

	err := e.mgr.SaveContent(ctx, target, content)

	log.Event("file:save", "save").
		Author(cmd.Author()).
		Path(target).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("save %q: %w", target, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Saved %s\n", target)
	}
	return cmd.PrintJSON(saveResult{Path: target})
}
