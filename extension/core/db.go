// db.go implements the "docshell db" command for listing databases.
//
// Separated from extension.go to isolate multi-database concerns.
//
// Design: DB is a NoStoreCommand because it reads repository metadata
// without opening the databases themselves, so it works even when a
// database is locked or corrupted.

package core

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db",
		Short: "List databases",
		Long: `List the databases in the repository.

  docshell db                # databases in the discovered repository
  docshell db --dir /path    # databases in an external directory`,
		Args: cobra.NoArgs,
		RunE: runDB,
	}
}

func runDB(_ *cobra.Command, _ []string) error {
	dir := cmd.Dir()

	dbs, err := repo.ListDBs(dir)

	log.Event("core:db", "list").
		Author(cmd.Author()).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
	}

	if !cmd.JSON() {
		for _, d := range dbs {
			name := d.Name
			if name == "" {
				name = "(default)"
			}
			fmt.Fprintf(cmd.Out(), "%-16s %8d  %s\n", name, d.Size, d.File)
		}
		return nil
	}
	return cmd.PrintJSON(dbs)
}
