// resources.go implements MCP resource handlers for document access.
//
// MCP resources provide read-only access to documents via URI schemes,
// enabling LLM clients to reference documents without using tools. This
// is useful for context loading where the LLM needs document content but
// isn't performing an action.
//
// Design: Resource URIs follow the patterns docshell://documents/{path} and
// docshell://checkpoints/{key}. Documents return the stored content (the last
// save), mirroring the CLI's "show" command behaviour.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI, helping clients
	// debug URI construction issues.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyPath indicates a missing document path in a resource URI.
	ErrEmptyPath = errors.New("empty document path")
)

// readDocument handles docshell://documents/{path} resource requests.
func (h *handlers) readDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.mgr == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	p, err := parseResourceURI(req.Params.URI, "docshell://documents/")
	if err != nil {
		return nil, err
	}

	doc, err := h.mgr.Contents().Get(ctx, p, true)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc.Content,
		},
	}, nil
}

// readCheckpoint handles docshell://checkpoints/{key} resource requests.
func (h *handlers) readCheckpoint(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.mgr == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	key, err := parseResourceURI(req.Params.URI, "docshell://checkpoints/")
	if err != nil {
		return nil, err
	}

	cp, err := h.mgr.Contents().CheckpointByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     cp.Content,
		},
	}, nil
}

// parseResourceURI strips a known prefix and validates the remainder.
func parseResourceURI(uri, prefix string) (string, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return "", ErrEmptyPath
	}
	return rest, nil
}
