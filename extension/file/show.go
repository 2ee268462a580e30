// show.go implements the "docshell show" command for reading document contents.
//
// Separated from file.go to isolate output formatting logic including
// terminal rendering with glamour.
//
// Design: Show behaves like Unix cat with markdown awareness. Terminal output
// gets glamour rendering; pipe/redirect gets raw content. --key shows a
// checkpoint's content instead of the current document.

package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// showResult is the JSON representation of a show operation.
type showResult struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Content string `json:"content"`
}

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <path>",
		Short: "Read a document",
		Long:  `Output the contents of a document to stdout. Markdown is rendered when stdout is a terminal.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runShow,
	}
	c.Flags().StringP(extension.FlagKey, "k", "", "Show a checkpoint's content instead")
	c.Flags().Bool(extension.FlagRaw, false, "Output raw content without rendering")
	return c
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	key, _ := c.Flags().GetString(extension.FlagKey)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	var content string
	var err error
	if key != "" {
		var cp, cpErr = e.mgr.Contents().CheckpointByKey(ctx, key)
		err = cpErr
		if cp != nil {
			content = cp.Content
		}
	} else {
		doc, docErr := e.mgr.Contents().Get(ctx, p, true)
		err = docErr
		if doc != nil {
			content = doc.Content
		}
	}

	log.Event("file:show", "read").
		Author(cmd.Author()).
		Path(p).
		Key(key).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("show %q: %w", p, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(showResult{Path: p, Size: int64(len(content)), Content: content})
	}

	// Render with glamour if TTY, markdown, and not --raw
	if !raw && strings.HasSuffix(p, ".md") && term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, renderErr := glamour.Render(content, "dark")
		if renderErr == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}

	fmt.Fprint(cmd.Out(), content)
	return nil
}
