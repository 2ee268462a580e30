// export.go implements the "docshell export" command for writing documents
// out to the filesystem.
//
// Separated from file.go to isolate filesystem output concerns.
//
// Design: Export is the bridge out of the store. A trailing slash on the
// source exports every document under that prefix, preserving layout;
// otherwise a single document is written. Existing files are never
// overwritten without --force.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/exporter"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export <path|prefix/> <dest>",
		Short: "Export documents to the filesystem",
		Long: `Write stored documents out as files.

  docshell export docs/readme.md ./readme.md   # single document
  docshell export docs/ ./exported             # everything under docs/
  docshell export "" ./exported                # the whole store`,
		Args: cobra.ExactArgs(2),
		RunE: e.runExport,
	}
	c.Flags().StringP(extension.FlagKey, "k", "", "Export a checkpoint's content instead")
	return c
}

func (e *Extension) runExport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	src, dst := args[0], args[1]
	key, _ := c.Flags().GetString(extension.FlagKey)

	result, err := exporter.Run(ctx, cmd.Out(), e.mgr.Contents(), src, dst, exporter.Options{
		Key:   key,
		Force: cmd.Force(),
	})

	log.Event("file:export", "export").
		Author(cmd.Author()).
		Path(src).
		Key(key).
		Detail("dest", dst).
		Detail("count", result.Exported).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export %q: %w", src, err))
	}
	return cmd.PrintJSON(result)
}
