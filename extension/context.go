// context.go defines the Context interface for extension access to docshell internals.
//
// Separated from extension.go to isolate dependency injection concerns.
// The Context provides a controlled surface area for extensions - they can
// access what they need without reaching into arbitrary internals.
//
// Design: Context uses an interface to enable testing with mock implementations.
// Extensions receive Context during Init(), not at construction, to support
// the two-phase initialization pattern where extensions register before
// the manager is available.

package extension

import (
	"database/sql"

	"github.com/jpl-au/docshell/internal/config"
	"github.com/jpl-au/docshell/internal/manager"
	"github.com/jpl-au/docshell/internal/shell"
)

// Context provides extensions controlled access to docshell internals.
// Extensions receive this during initialisation to access shared resources.
type Context interface {
	// Manager returns the session manager for document operations.
	Manager() *manager.Manager

	// Indicator returns the host dirty indicator aggregated across sessions.
	Indicator() *shell.Indicator

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify core tables.
	DB() *sql.DB

	// Config returns user configuration for respecting user preferences.
	Config() *config.Config
}

// extContext implements Context.
type extContext struct {
	mgr *manager.Manager
	ind *shell.Indicator
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(mgr *manager.Manager, ind *shell.Indicator, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		mgr: mgr,
		ind: ind,
		db:  db,
		cfg: cfg,
	}
}

// Manager returns the session manager, the primary interface for document operations.
func (c *extContext) Manager() *manager.Manager {
	return c.mgr
}

// Indicator returns the shared dirty indicator.
func (c *extContext) Indicator() *shell.Indicator {
	return c.ind
}

// DB returns the raw database connection for extensions needing custom tables.
func (c *extContext) DB() *sql.DB {
	return c.db
}

// Config returns the loaded user configuration for respecting preferences.
func (c *extContext) Config() *config.Config {
	return c.cfg
}
