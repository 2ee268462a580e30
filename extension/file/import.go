// import.go implements the "docshell import" command for bringing
// filesystem files into the store.
//
// Separated from file.go to isolate filesystem input concerns.
//
// Design: Import is the bridge into the store. Directories are scanned
// recursively; document paths mirror the source layout unless --flat is
// given. --dry-run reports the would-be paths without writing.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/importer"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <file|directory>",
		Short: "Import filesystem files as documents",
		Long: `Read files from the filesystem into the store.

  docshell import ./notes.md                  # single file
  docshell import ./docs --path imported/     # directory under a prefix`,
		Args: cobra.ExactArgs(1),
		RunE: e.runImport,
	}
	c.Flags().StringP(extension.FlagPath, "p", "", "Document path prefix for imported files")
	c.Flags().Bool(extension.FlagFlat, false, "Flatten directory structure")
	c.Flags().Bool(extension.FlagHidden, false, "Include hidden files and directories")
	c.Flags().Bool(extension.FlagDryRun, false, "Show what would be imported without writing")
	return c
}

func (e *Extension) runImport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	src := args[0]
	prefix, _ := c.Flags().GetString(extension.FlagPath)
	flat, _ := c.Flags().GetBool(extension.FlagFlat)
	hidden, _ := c.Flags().GetBool(extension.FlagHidden)
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	result, err := importer.Run(ctx, cmd.Out(), e.mgr.Contents(), src, importer.Options{
		Prefix: prefix,
		Flat:   flat,
		Hidden: hidden,
		DryRun: dryRun,
		Write: store.WriteOptions{
			MaxPath:    e.cfg.MaxPath(),
			MaxContent: e.cfg.MaxContent(),
		},
	})

	log.Event("file:import", "import").
		Author(cmd.Author()).
		Path(prefix).
		Detail("src", src).
		Detail("count", result.Imported).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import %q: %w", src, err))
	}
	return cmd.PrintJSON(result)
}
