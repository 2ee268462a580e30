// tools_documents.go implements MCP tools for store-level document operations.
//
// Separated from tools_sessions.go: these tools act on stored content and
// checkpoints rather than on session working copies. They mirror the CLI
// commands (ls, show, checkpoint, mv, clone, rm, diff) but return structured
// JSON for LLM consumption rather than human-readable text.

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/docshell/internal/diff"
	"github.com/jpl-au/docshell/internal/log"
	"github.com/jpl-au/docshell/internal/repo"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// initStore handles docshell_init tool calls. Works without an existing store.
func (h *handlers) initStore(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr != nil {
		return mcp.NewToolResultError("store already initialised"), nil
	}

	err := repo.Init(false, h.db, h.dir)
	log.Event("mcp:init", "init").Author("mcp").Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.connect(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"initialised": repo.DBFileName(h.db)})
}

// listDocuments handles docshell_list tool calls.
func (h *handlers) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	prefix := getString(req, "prefix", "")
	docs, err := h.mgr.Contents().List(ctx, prefix)
	log.Event("mcp:list", "list").Author("mcp").Path(prefix).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type entry struct {
		Path      string `json:"path"`
		Size      int64  `json:"size"`
		UpdatedAt string `json:"updated_at"`
	}
	out := make([]entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, entry{
			Path:      d.Path,
			Size:      d.Size,
			UpdatedAt: time.Unix(d.UpdatedAt, 0).UTC().Format(time.RFC3339),
		})
	}
	return jsonResult(out)
}

// readDocumentTool handles docshell_read tool calls.
//
// Reads the stored state: the last save, or a checkpoint when key is given.
// For the live working copy of an open session, use docshell_open instead.
func (h *handlers) readDocumentTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := getString(req, "key", "")

	var content string
	if key != "" {
		cp, err := h.mgr.Contents().CheckpointByKey(ctx, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content = cp.Content
	} else {
		doc, err := h.mgr.Contents().Get(ctx, p, true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content = doc.Content
	}

	log.Event("mcp:read", "read").Author("mcp").Path(p).Key(key).Write(nil)
	return jsonResult(map[string]string{"path": p, "content": content})
}

// createCheckpoint handles docshell_checkpoint tool calls.
//
// Author is strictly required (not defaulted) because every checkpoint must
// be attributable. The author typically identifies the LLM agent so that
// checkpoint history clearly shows which system made each snapshot.
func (h *handlers) createCheckpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required for checkpoints"), nil
	}

	cp, err := h.mgr.Contents().CreateCheckpoint(ctx, p, store.CheckpointOptions{
		Author:  author,
		Message: getString(req, "message", ""),
		Max:     h.cfg.MaxCheckpoints(),
	})

	l := log.Event("mcp:checkpoint", "snapshot").Author(author).Path(p)
	if cp != nil {
		l = l.ResultKey(cp.Key)
	}
	l.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cp.ToJSON())
}

// listCheckpoints handles docshell_checkpoints tool calls.
func (h *handlers) listCheckpoints(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := getInt(req, "limit", 0)

	cps, err := h.mgr.Contents().Checkpoints(ctx, p, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]store.CheckpointJSON, 0, len(cps))
	for i := range cps {
		out = append(out, cps[i].ToJSON())
	}
	return jsonResult(out)
}

// restoreCheckpoint handles docshell_restore tool calls.
//
// Restoring loads the checkpoint into the session's working copy rather than
// overwriting the stored document directly. The session becomes dirty, so the
// restore participates in normal save/revert/close flow.
func (h *handlers) restoreCheckpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := getString(req, "key", "")

	sess, err := h.mgr.OpenOrReveal(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := awaitReady(ctx, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cp, err := sess.RestoreCheckpoint(ctx, key)
	l := log.Event("mcp:restore", "restore").Author("mcp").Path(p).Key(key)
	if cp != nil {
		l = l.ResultKey(cp.Key)
	}
	l.Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"path":     p,
		"restored": cp.Key,
		"dirty":    sess.Dirty(),
	})
}

// renameDocument handles docshell_rename tool calls.
func (h *handlers) renameDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.mgr.Rename(ctx, from, to)
	log.Event("mcp:rename", "move").Author("mcp").Path(from).Detail("to", to).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"from": from, "to": to})
}

// cloneDocument handles docshell_clone tool calls.
func (h *handlers) cloneDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	to, err := h.mgr.CloneDocument(ctx, p)
	log.Event("mcp:clone", "copy").Author("mcp").Path(p).Detail("to", to).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"from": p, "to": to})
}

// deleteDocument handles docshell_delete tool calls.
func (h *handlers) deleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = h.mgr.DeleteFile(ctx, p)
	log.Event("mcp:delete", "delete").Author("mcp").Path(p).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"deleted": p})
}

// diffDocument handles docshell_diff tool calls.
//
// Without key: working copy vs stored document (what save would change).
// With key: stored document vs checkpoint (what revert would change).
func (h *handlers) diffDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := getString(req, "key", "")

	doc, err := h.mgr.Contents().Get(ctx, p, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var r diff.Result
	if key != "" {
		cp, err := h.mgr.Contents().CheckpointByKey(ctx, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r = diff.Compute(cp.Content, doc.Content, fmt.Sprintf("%s@%s", p, cp.Key), p)
	} else {
		sess := h.mgr.ContextFor(p)
		if sess == nil || !sess.IsReady() {
			return mcp.NewToolResultError("no open session for " + p + " - pass key to diff against a checkpoint"), nil
		}
		r = diff.Compute(doc.Content, sess.Model().Content(), p, p+" (session)")
	}

	return jsonResult(r)
}
