/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that discovers
// the store, loads config, and wires up extensions.
//
// Design: Extensions register during init() but aren't initialised until
// first command execution. This two-phase pattern allows extensions to
// declare commands before the store exists. The manager is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/docshell/extension"
	"github.com/jpl-au/docshell/internal/config"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/manager"
	"github.com/jpl-au/docshell/internal/repo"
	"github.com/jpl-au/docshell/internal/shell"
	"github.com/jpl-au/docshell/internal/store"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built dynamically from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// authorRequiredCommands lists commands that require author configuration.
// These are commands that write or modify document data.
var authorRequiredCommands = map[string]bool{
	"save":       true,
	"checkpoint": true,
	"mv":         true,
	"rm":         true,
	"clone":      true,
	"revert":     true,
	"import":     true,
}

// buildNoStoreCommands creates the set of commands that skip store initialisation.
//
// Why this exists: Most commands need the document store, but some must work
// without it. There are two categories:
//
//  1. Bootstrap commands (init, config, version) - These help users set up
//     docshell before a store exists. Running "docshell config" shouldn't
//     fail just because you haven't run "docshell init" yet.
//
//  2. Extension-declared storeless commands - Extensions can implement the
//     Storeless interface to declare commands that manage their own
//     lifecycle.
//
// When adding a new command: If it's a core bootstrap command, add it here.
// Otherwise, implement extension.Storeless in your extension.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		// Core bootstrap commands - always storeless
		"init":    true,
		"config":  true,
		"version": true,
	}

	// Add extension-declared storeless commands
	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extStore   *store.SQLiteContents
	extManager *manager.Manager
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the store, creates the session manager, and injects
// them into extensions.
//
// Why sync.Once: The store is expensive to open (sets up WAL mode, runs
// schema migrations) and must be shared across all extensions. We use
// sync.Once to guarantee exactly one initialisation per process, even if
// multiple commands somehow trigger it.
func initExtensions() error {
	initOnce.Do(func() {
		s, err := repo.Open(DB(), Dir())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extStore = s

		// Set project identifier for audit logging
		log.SetProject(s.Path())

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		ind := shell.NewIndicator()
		extManager = manager.New(s, ind, manager.Options{
			Write: store.WriteOptions{
				MaxPath:    cfg.MaxPath(),
				MaxContent: cfg.MaxContent(),
			},
			Checkpoint: store.CheckpointOptions{
				Author: Author(),
				Max:    cfg.MaxCheckpoints(),
			},
		})

		extContext = extension.NewContext(extManager, ind, s.DB(), cfg)

		// Bridge manager lifecycle events to extension event handlers.
		extManager.Events().Subscribe(dispatchEvent)

		// Inject the shared context into all Initializable extensions.
		// This is dependency injection - extensions receive the manager rather
		// than creating it themselves, enabling shared state and proper cleanup.
		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

// dispatchEvent translates a manager event into the extension event type and
// notifies all registered handlers. Handler errors are logged, not propagated:
// events are notifications, not veto points.
func dispatchEvent(me manager.Event) {
	var e extension.Event
	switch me.Kind {
	case manager.EventOpened:
		e = extension.SessionEvent{Path: me.Path, Opened: true}
	case manager.EventClosed:
		e = extension.SessionEvent{Path: me.Path}
	case manager.EventSaved:
		e = extension.DocumentSavedEvent{Path: me.Path}
	case manager.EventDeleted:
		e = extension.DocumentDeletedEvent{Path: me.Path}
	case manager.EventRenamed:
		e = extension.DocumentRenamedEvent{Path: me.Path, To: me.To}
	case manager.EventCloned:
		e = extension.DocumentClonedEvent{Path: me.Path, To: me.To}
	default:
		return
	}

	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(extContext, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		// Build noStoreCommands after all extensions are registered
		noStoreCommands = buildNoStoreCommands()
	})
}
