package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/storefront-mcp/internal/domain"
)

// Tool is one callable operation exposed over the protocol. Handlers return
// structured results; tool-level failures travel inside the result with
// IsError set, never as transport faults.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     func(ctx context.Context, args json.RawMessage) (*ToolResult, error)
}

// Content is one item of a tool result payload.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolResult is the MCP tools/call result shape.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult marshals v to indented JSON and wraps it as a text content item.
func TextResult(v any) (*ToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ToolResult{Content: []Content{{Type: "text", Text: string(b)}}}, nil
}

// MessageResult wraps a plain string as a text content item.
func MessageResult(msg string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: msg}}}
}

// ErrorResult wraps a short human-readable message as a failed tool result.
func ErrorResult(msg string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: msg}}, IsError: true}
}

// errorMessage maps domain errors to the short messages callers see.
// Sub-causes are deliberately collapsed: the caller cannot tell a wrong code
// from an expired one, nor an unknown token from a stale one.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpired):
		return "invalid or expired code"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized: invalid or expired session token"
	default:
		return err.Error()
	}
}
