// Package mcp implements the Model Context Protocol server, exposing docshell
// operations to LLMs. Unlike the one-shot CLI, the server is long-lived:
// sessions opened by tools stay open across calls, and the dirty indicator
// aggregates their unsaved changes for the life of the process.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/docshell/internal/config"
	"github.com/jpl-au/docshell/internal/manager"
	"github.com/jpl-au/docshell/internal/repo"
	"github.com/jpl-au/docshell/internal/shell"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call docshell_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call docshell_init first"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other MCP clients.
//
// Design: The server starts successfully even if no store exists. This allows
// LLMs to call docshell_init to create a store, rather than failing with an
// opaque error. Tools that require a store return ErrNotInitialised with
// clear guidance.
func Serve(db, dir string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db, dir: dir}

	// Try to open existing store; nil manager is OK (uninitialised mode)
	if err := h.connect(); err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if h.mgr == nil {
		slog.Info("docshell not initialised, starting in uninitialised mode - call docshell_init to create store")
	}

	s := server.NewMCPServer(
		"docshell",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)

	slog.Info("docshell MCP server ready", "version", Version, "transport", "stdio")

	err := server.ServeStdio(s)
	h.shutdown()
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the session manager.
// The mgr field may be nil if the store has not been initialised.
type handlers struct {
	db  string // database name for init
	dir string // explicit database directory (skip discovery)

	store *store.SQLiteContents // nil if not initialised
	ind   *shell.Indicator
	mgr   *manager.Manager
	cfg   *config.Config
}

// connect opens the store and builds the session manager around it.
// Called at startup and again from docshell_init after creating a store.
func (h *handlers) connect() error {
	s, err := repo.Open(h.db, h.dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		s.Close()
		return err
	}

	h.store = s
	h.cfg = cfg
	h.ind = shell.NewIndicator()
	h.mgr = manager.New(s, h.ind, manager.Options{
		Write: store.WriteOptions{
			MaxPath:    cfg.MaxPath(),
			MaxContent: cfg.MaxContent(),
		},
		Checkpoint: store.CheckpointOptions{
			Max: cfg.MaxCheckpoints(),
		},
	})
	return nil
}

// shutdown disposes open sessions and flushes the WAL. Unsaved changes are
// logged, not blocked on: a disconnecting client is not coming back to save.
func (h *handlers) shutdown() {
	if h.mgr == nil {
		return
	}
	if h.ind.Dirty() {
		slog.Warn("shutting down with unsaved changes", "sessions", h.ind.Holds())
	}
	_ = h.mgr.CloseAll(true)
	if err := h.store.WALCheckpoint(context.Background()); err != nil {
		slog.Warn("WAL checkpoint failed", "error", err)
	}
	if err := h.store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

// requireInit returns an error result if the store is not initialised.
// Tools that require a store should call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.mgr == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based resource access for direct document reading.
func registerResources(s *server.MCPServer, h *handlers) {
	// Document content by path
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docshell://documents/{path}",
			"Document",
			mcp.WithTemplateDescription("Read stored document content by path"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readDocument,
	)

	// Checkpoint content by key
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docshell://checkpoints/{key}",
			"Checkpoint",
			mcp.WithTemplateDescription("Read a checkpoint's content by key"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readCheckpoint,
	)
}

// registerTools exposes docshell operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("docshell_init",
			mcp.WithDescription("Initialise a new docshell store. Call this first if other tools return 'store not initialised'."),
		),
		h.initStore,
	)

	// Open session
	s.AddTool(
		mcp.NewTool("docshell_open",
			mcp.WithDescription("Open a document session (or reveal the existing one). The session stays open across tool calls until closed."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		),
		h.openSession,
	)

	// New untitled document
	s.AddTool(
		mcp.NewTool("docshell_new",
			mcp.WithDescription("Create an empty untitled document and open a session on it"),
			mcp.WithString("extension", mcp.Description("File extension for the generated name (default .md)")),
		),
		h.newUntitled,
	)

	// Edit session content
	s.AddTool(
		mcp.NewTool("docshell_edit",
			mcp.WithDescription("Replace a session's working content. Marks the session dirty; call docshell_save to persist."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path (opened if no session exists)")),
			mcp.WithString("content", mcp.Required(), mcp.Description("New working content")),
		),
		h.editSession,
	)

	// Save
	s.AddTool(
		mcp.NewTool("docshell_save",
			mcp.WithDescription("Save a session's working content to the store, clearing its dirty flag"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("as", mcp.Description("Save under a different path and retarget the session")),
		),
		h.saveSession,
	)

	// Revert
	s.AddTool(
		mcp.NewTool("docshell_revert",
			mcp.WithDescription("Discard a session's unsaved changes by reloading stored content"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		),
		h.revertSession,
	)

	// Close
	s.AddTool(
		mcp.NewTool("docshell_close",
			mcp.WithDescription("Close a document session. Refuses if the session has unsaved changes unless force is set."),
			mcp.WithString("path", mcp.Description("Document path (omit with all=true to close everything)")),
			mcp.WithBoolean("all", mcp.Description("Close all open sessions")),
			mcp.WithBoolean("force", mcp.Description("Discard unsaved changes")),
		),
		h.closeSession,
	)

	// Status
	s.AddTool(
		mcp.NewTool("docshell_status",
			mcp.WithDescription("Report open sessions and whether any has unsaved changes"),
		),
		h.status,
	)

	// List documents
	s.AddTool(
		mcp.NewTool("docshell_list",
			mcp.WithDescription("List documents in the store"),
			mcp.WithString("prefix", mcp.Description("Filter by path prefix")),
		),
		h.listDocuments,
	)

	// Read stored content
	s.AddTool(
		mcp.NewTool("docshell_read",
			mcp.WithDescription("Read a document's stored content (the last saved state, not the session working copy)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("key", mcp.Description("Checkpoint key to read instead of current content")),
		),
		h.readDocumentTool,
	)

	// Checkpoint create
	s.AddTool(
		mcp.NewTool("docshell_checkpoint",
			mcp.WithDescription("Snapshot a document's stored content as an immutable checkpoint"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Checkpoint message")),
		),
		h.createCheckpoint,
	)

	// Checkpoint list
	s.AddTool(
		mcp.NewTool("docshell_checkpoints",
			mcp.WithDescription("List a document's checkpoints, newest first"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithNumber("limit", mcp.Description("Maximum checkpoints to return")),
		),
		h.listCheckpoints,
	)

	// Restore checkpoint into session
	s.AddTool(
		mcp.NewTool("docshell_restore",
			mcp.WithDescription("Load checkpoint content into a session's working copy. The session becomes dirty; save to keep, revert to abandon."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("key", mcp.Description("Checkpoint key (default: most recent)")),
		),
		h.restoreCheckpoint,
	)

	// Rename
	s.AddTool(
		mcp.NewTool("docshell_rename",
			mcp.WithDescription("Move/rename a document. A live session follows the rename with its unsaved changes."),
			mcp.WithString("from", mcp.Required(), mcp.Description("Source path")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Destination path")),
		),
		h.renameDocument,
	)

	// Clone
	s.AddTool(
		mcp.NewTool("docshell_clone",
			mcp.WithDescription("Copy a document's stored content to a derived name (base-copy.md, ...)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		),
		h.cloneDocument,
	)

	// Delete
	s.AddTool(
		mcp.NewTool("docshell_delete",
			mcp.WithDescription("Delete a document and its checkpoints. Any open session on the path is closed first."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		),
		h.deleteDocument,
	)

	// Diff
	s.AddTool(
		mcp.NewTool("docshell_diff",
			mcp.WithDescription("Show differences between a session's working copy and the stored document, or between the stored document and a checkpoint"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("key", mcp.Description("Checkpoint key to compare the stored document against")),
		),
		h.diffDocument,
	)
}
