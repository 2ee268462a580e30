// status.go implements the "docshell status" command.
//
// Separated from file.go to isolate status reporting.
//
// Design: Status reports the open sessions and the host dirty indicator.
// Within a one-shot CLI invocation no sessions are open; the command earns
// its keep under "docshell serve", where sessions persist across tool calls
// and unsaved changes accumulate.

package file

import (
	"fmt"

	"github.com/jpl-au/docshell/cmd"
	"github.com/spf13/cobra"
)

// sessionStatus describes one open session. Held reports whether the
// session currently holds the host indicator; it lags Dirty for a session
// that turned dirty before its initial load finished.
type sessionStatus struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Ready bool   `json:"ready"`
	Dirty bool   `json:"dirty"`
	Held  bool   `json:"held"`
}

// statusResult is the JSON representation of the host state.
type statusResult struct {
	Dirty    bool            `json:"dirty"`
	Sessions []sessionStatus `json:"sessions"`
}

func (e *Extension) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show open sessions and unsaved changes",
		Long:  `Report open document sessions and whether any has unsaved changes.`,
		Args:  cobra.NoArgs,
		RunE:  e.runStatus,
	}
}

func (e *Extension) runStatus(_ *cobra.Command, _ []string) error {
	sessions := e.mgr.Sessions()
	tracker := e.mgr.Tracker()

	result := statusResult{
		Dirty:    e.ind.Dirty(),
		Sessions: make([]sessionStatus, 0, len(sessions)),
	}
	for _, s := range sessions {
		result.Sessions = append(result.Sessions, sessionStatus{
			ID:    s.ID(),
			Path:  s.Path(),
			Ready: s.IsReady(),
			Dirty: s.Dirty(),
			Held:  tracker.Holding(s.ID()),
		})
	}

	if !cmd.JSON() {
		if len(result.Sessions) == 0 {
			fmt.Fprintln(cmd.Out(), "No open sessions")
		}
		for _, s := range result.Sessions {
			marker := " "
			if s.Dirty {
				marker = "*"
			}
			fmt.Fprintf(cmd.Out(), "%s %s  %s\n", marker, s.ID, s.Path)
		}
		if result.Dirty {
			fmt.Fprintln(cmd.Out(), "Unsaved changes present")
		}
		return nil
	}

	return cmd.PrintJSON(result)
}
