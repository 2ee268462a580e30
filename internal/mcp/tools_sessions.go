// tools_sessions.go implements MCP tools for session lifecycle operations.
//
// Separated from server.go to isolate session-specific tool implementations.
// These are the tools that make the server stateful: a session opened here
// stays open across tool calls, its working copy accumulates edits, and the
// dirty indicator reflects it until save, revert, or close.
//
// Design principles:
//
//  1. Error handling: Errors return MCP tool error results rather than Go
//     errors. This ensures the LLM receives actionable feedback it can parse
//     and potentially retry, rather than failing at the protocol level.
//
//  2. Readiness: Tools that need a session's working copy wait for the
//     initial load with a bounded timeout, so a document deleted mid-open
//     reports an error instead of hanging the tool call.

package mcp

import (
	"context"
	"errors"

	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/manager"
	"github.com/jpl-au/docshell/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// sessionJSON is the tool-facing representation of an open session.
type sessionJSON struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Ready   bool   `json:"ready"`
	Dirty   bool   `json:"dirty"`
	Content string `json:"content,omitempty"`
}

func toSessionJSON(sess *session.Context, withContent bool) sessionJSON {
	j := sessionJSON{
		ID:    sess.ID(),
		Path:  sess.Path(),
		Ready: sess.IsReady(),
		Dirty: sess.Dirty(),
	}
	if withContent && sess.IsReady() {
		j.Content = sess.Model().Content()
	}
	return j
}

// openSession handles docshell_open tool calls.
//
// Opening an already-open path reveals the existing session rather than
// creating a second one, so repeated opens are safe and idempotent.
func (h *handlers) openSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, err := h.mgr.OpenOrReveal(ctx, p)
	log.Event("mcp:open", "open").Author("mcp").Path(p).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := awaitReady(ctx, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toSessionJSON(sess, true))
}

// newUntitled handles docshell_new tool calls.
func (h *handlers) newUntitled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	ext := getString(req, "extension", ".md")
	if ext[0] != '.' {
		ext = "." + ext
	}

	sess, err := h.mgr.NewUntitled(ctx, ext)
	log.Event("mcp:new", "create").Author("mcp").Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := awaitReady(ctx, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toSessionJSON(sess, false))
}

// editSession handles docshell_edit tool calls.
//
// The edit replaces the session's working copy and marks it dirty. Nothing is
// persisted until docshell_save; the LLM can keep editing or revert.
func (h *handlers) editSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, err := h.mgr.OpenOrReveal(ctx, p)
	if err != nil {
		log.Event("mcp:edit", "edit").Author("mcp").Path(p).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := awaitReady(ctx, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess.Model().SetContent(content)
	log.Event("mcp:edit", "edit").Author("mcp").Path(p).Write(nil)

	return jsonResult(toSessionJSON(sess, false))
}

// saveSession handles docshell_save tool calls.
func (h *handlers) saveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	as := getString(req, "as", "")

	sess := h.mgr.ContextFor(p)
	if sess == nil {
		return mcp.NewToolResultError("no open session for " + p), nil
	}

	if as != "" {
		err = h.mgr.SaveAs(ctx, p, as)
	} else {
		err = sess.Save(ctx)
	}
	log.Event("mcp:save", "save").Author("mcp").Path(sess.Path()).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toSessionJSON(sess, false))
}

// revertSession handles docshell_revert tool calls.
func (h *handlers) revertSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess := h.mgr.ContextFor(p)
	if sess == nil {
		return mcp.NewToolResultError("no open session for " + p), nil
	}

	err = sess.Revert(ctx)
	log.Event("mcp:revert", "revert").Author("mcp").Path(p).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toSessionJSON(sess, true))
}

// closeSession handles docshell_close tool calls.
//
// A dirty session is refused without force, mirroring an editor's "unsaved
// changes" prompt. The refusal names the offending path so the LLM can save
// or revert it before retrying.
func (h *handlers) closeSession(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	force := getBool(req, "force", false)
	if getBool(req, "all", false) {
		err := h.mgr.CloseAll(force)
		log.Event("mcp:close", "close").Author("mcp").Detail("all", true).Write(err)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]bool{"closed": true})
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.mgr.Close(p, force)
	log.Event("mcp:close", "close").Author("mcp").Path(p).Write(err)
	if errors.Is(err, manager.ErrUnsavedChanges) {
		return mcp.NewToolResultError(err.Error() + " - save or revert first, or set force"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"closed": p})
}

// status handles docshell_status tool calls.
func (h *handlers) status(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	sessions := h.mgr.Sessions()
	out := struct {
		Dirty    bool          `json:"dirty"`
		Sessions []sessionJSON `json:"sessions"`
	}{
		Dirty:    h.ind.Dirty(),
		Sessions: make([]sessionJSON, 0, len(sessions)),
	}
	for _, sess := range sessions {
		out.Sessions = append(out.Sessions, toSessionJSON(sess, false))
	}
	return jsonResult(out)
}
