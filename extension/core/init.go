// init.go implements the "docshell init" command for repository initialisation.
//
// Separated from extension.go to isolate init-specific logic. Init is special
// because it runs before a store exists and creates the initial database.
//
// Design: Init does NOT create config - that's managed separately via
// "docshell config". This follows git's model where init creates repository
// structure and config is separate.

package core

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a new docshell store",
		Long: `Creates a .docshell/docshell.db database in the current directory.

Use --db to create additional databases:
  docshell init --db notes    # creates .docshell/docshell-notes.db

Use --dir to create in a different directory:
  docshell init --dir /path/to/project

Note: init does not create config. Use "docshell config" to set up configuration.`,
		RunE: runInit,
	}
}

func runInit(_ *cobra.Command, _ []string) error {
	db, dir := cmd.DB(), cmd.Dir()

	err := repo.Init(cmd.Force(), db, dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	dbFile := repo.DBFileName(db)
	loc := ".docshell/" + dbFile
	if dir != "" {
		loc = dir + "/.docshell/" + dbFile
	}
	fmt.Fprintf(cmd.Out(), "Initialised docshell store in %s\n", loc)
	return nil
}
