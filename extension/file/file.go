// Package file provides the file extension for core document operations.
// Registers commands: new, save, mv, rm, clone, revert, checkpoint, show,
// diff, ls, status, export, import.
//
// These commands mirror Unix filesystem utilities to provide familiar
// semantics. Each command file is separated to isolate its specific flag
// handling and output formatting logic.

package file

import (
	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/config"
	"github.com/jpl-au/docshell/internal/manager"
	"github.com/jpl-au/docshell/internal/shell"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the file extension.
type Extension struct {
	mgr *manager.Manager
	ind *shell.Indicator
	cfg *config.Config
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "file" - this extension handles core document operations.
func (e *Extension) Name() string { return "file" }

// Init connects to the shared manager for document operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.mgr = ctx.Manager()
	e.ind = ctx.Indicator()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns Unix-like document manipulation commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newNewCmd(),
		e.newSaveCmd(),
		e.newMvCmd(),
		e.newRmCmd(),
		e.newCloneCmd(),
		e.newRevertCmd(),
		e.newCheckpointCmd(),
		e.newShowCmd(),
		e.newDiffCmd(),
		e.newLsCmd(),
		e.newStatusCmd(),
		e.newExportCmd(),
		e.newImportCmd(),
	}
}

// MCPTools returns nil - document MCP tools are provided by internal/mcp package.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
