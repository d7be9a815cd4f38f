package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/storefront-mcp/internal/pkg/id"
)

const protocolVersion = "2024-11-05"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// JSON-RPC 2.0 types

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Server exposes a fixed tool set as JSON-RPC over HTTP, either directly
// (POST /mcp) or via an SSE stream (GET /sse + POST /messages).
type Server struct {
	name    string
	version string
	tools   []Tool
	index   map[string]*Tool
	streams *streamHub
}

func NewServer(name, version string, tools []Tool) *Server {
	s := &Server{
		name:    name,
		version: version,
		tools:   tools,
		index:   make(map[string]*Tool, len(tools)),
		streams: newStreamHub(),
	}
	for i := range tools {
		s.index[tools[i].Name] = &tools[i]
	}
	return s
}

// Routes mounts the protocol endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/mcp", s.handleDirect)
	r.Get("/sse", s.handleSSE)
	r.Post("/messages", s.handleMessages)
}

// handleDirect serves a single JSON-RPC request/response exchange.
func (s *Server) handleDirect(w http.ResponseWriter, r *http.Request) {
	req, rpcErr := decodeRequest(r)
	if rpcErr != nil {
		writeResponse(w, JSONRPCResponse{JSONRPC: "2.0", Error: rpcErr})
		return
	}

	if isNotification(req) {
		s.acceptNotification(req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeResponse(w, s.handle(r.Context(), *req))
}

// handle routes one JSON-RPC request to its method handler.
func (s *Server) handle(ctx context.Context, req JSONRPCRequest) JSONRPCResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return result(req.ID, map[string]any{})
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return rpcError(req.ID, MethodNotFound, "method not found")
	}
}

func (s *Server) handleInitialize(req JSONRPCRequest) JSONRPCResponse {
	slog.Info("client initialized", "server", s.name)
	return result(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	})
}

func (s *Server) handleToolsList(req JSONRPCRequest) JSONRPCResponse {
	infos := make([]toolInfo, len(s.tools))
	for i, t := range s.tools {
		infos[i] = toolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return result(req.ID, map[string]any{"tools": infos})
}

func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) JSONRPCResponse {
	var params callToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcError(req.ID, InvalidParams, "invalid params")
		}
	}
	if params.Name == "" {
		return rpcError(req.ID, InvalidParams, "tool name is required")
	}

	tool, ok := s.index[params.Name]
	if !ok {
		return rpcError(req.ID, InvalidParams, "tool not found")
	}

	requestID := id.New()
	args := params.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	slog.Debug("tools/call", "tool", params.Name, "request_id", requestID)

	res, err := tool.Handler(ctx, args)
	if err != nil {
		// Tool failures are structured results, never transport faults:
		// the process serves many independent calls and must not crash.
		slog.Warn("tool call failed", "tool", params.Name, "request_id", requestID, "err", err)
		res = ErrorResult(errorMessage(err))
	}
	return result(req.ID, res)
}

func (s *Server) acceptNotification(req *JSONRPCRequest) {
	if strings.HasPrefix(req.Method, "notifications/") {
		slog.Debug("accepted notification", "method", req.Method)
	} else {
		slog.Warn("notification for non-notification method", "method", req.Method)
	}
}

// --- helpers ---

func decodeRequest(r *http.Request) (*JSONRPCRequest, *JSONRPCError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return nil, &JSONRPCError{Code: ParseError, Message: "failed to read request body"}
	}
	if int64(len(body)) > MaxRequestBodySize {
		return nil, &JSONRPCError{Code: InvalidRequest, Message: "request body too large"}
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &JSONRPCError{Code: ParseError, Message: "invalid JSON"}
	}
	if req.JSONRPC != "2.0" {
		return nil, &JSONRPCError{Code: InvalidRequest, Message: "invalid JSON-RPC version"}
	}
	return &req, nil
}

func isNotification(req *JSONRPCRequest) bool {
	return len(req.ID) == 0 || string(req.ID) == "null"
}

func result(id json.RawMessage, v any) JSONRPCResponse {
	return JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: v}
}

func rpcError(id json.RawMessage, code int, message string) JSONRPCResponse {
	return JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &JSONRPCError{Code: code, Message: message}}
}

func writeResponse(w http.ResponseWriter, resp JSONRPCResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("failed to encode JSON-RPC response", "err", err)
	}
}
