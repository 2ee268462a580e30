// serve.go implements the "docshell serve" command for MCP server operation.
//
// Separated from extension.go because serve has unique lifecycle requirements.
// Unlike other commands that run and exit, serve blocks indefinitely handling
// MCP requests over stdio.
//
// Design: Serve is a NoStoreCommand - it manages its own store lifecycle
// instead of using the shared store from root.go. The server keeps sessions
// open across tool calls, so dirty tracking is live for the whole process.

package core

import (
	"github.com/jpl-au/docshell/cmd"
	"github.com/jpl-au/docshell/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Sessions opened by tools stay open for the life of the server, and the
dirty indicator aggregates their unsaved changes.

Use --db to serve a specific database:
  docshell serve --db notes    # serve docshell-notes.db`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	return mcp.Serve(cmd.DB(), cmd.Dir())
}
