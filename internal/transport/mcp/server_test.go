package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-mcp/internal/domain"
)

func testServer() *Server {
	tools := []Tool{
		{
			Name:        "echo",
			Description: "Echo the given text back.",
			InputSchema: map[string]any{"type": "object"},
			Handler: func(_ context.Context, args json.RawMessage) (*ToolResult, error) {
				var a struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return ErrorResult(err.Error()), nil
				}
				return MessageResult(a.Text), nil
			},
		},
		{
			Name:        "boom",
			Description: "Always fails.",
			InputSchema: map[string]any{"type": "object"},
			Handler: func(_ context.Context, _ json.RawMessage) (*ToolResult, error) {
				return nil, errors.New("upstream exploded")
			},
		},
		{
			Name:        "locked",
			Description: "Always unauthorized.",
			InputSchema: map[string]any{"type": "object"},
			Handler: func(_ context.Context, _ json.RawMessage) (*ToolResult, error) {
				return nil, fmt.Errorf("authorize: %w", domain.ErrUnauthorized)
			},
		},
	}
	return NewServer("test-server", "0.0.1", tools)
}

func postMCP(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handleDirect(rec, req)
	return rec
}

func decodeRPC(t *testing.T, rec *httptest.ResponseRecorder) JSONRPCResponse {
	t.Helper()
	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestInitialize(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	resp := decodeRPC(t, rec)

	require.Nil(t, resp.Error)
	res, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", res["protocolVersion"])

	info, ok := res["serverInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test-server", info["name"])
	assert.Equal(t, "0.0.1", info["version"])
}

func TestPing(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"2.0","id":7,"method":"ping"}`)
	resp := decodeRPC(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, "7", string(resp.ID))
}

func TestToolsList(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := decodeRPC(t, rec)
	require.Nil(t, resp.Error)

	res, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	tools, ok := res["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 3)

	names := make([]string, 0, len(tools))
	for _, raw := range tools {
		entry := raw.(map[string]any)
		names = append(names, entry["name"].(string))
		assert.NotEmpty(t, entry["description"])
		assert.NotNil(t, entry["inputSchema"])
	}
	assert.Equal(t, []string{"echo", "boom", "locked"}, names)
}

func TestToolsCall_HappyPath(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hello"}}}`)
	resp := decodeRPC(t, rec)
	require.Nil(t, resp.Error)

	res := toolResultFrom(t, resp)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.Equal(t, "hello", res.Content[0].Text)
	assert.False(t, res.IsError)
}

func TestToolsCall_NoArguments_DefaultsToEmptyObject(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo"}}`)
	resp := decodeRPC(t, rec)
	require.Nil(t, resp.Error)

	res := toolResultFrom(t, resp)
	assert.False(t, res.IsError)
}

func TestToolsCall_HandlerError_IsStructuredResult(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"boom","arguments":{}}}`)
	resp := decodeRPC(t, rec)

	// The transport stays healthy; the failure rides inside the result.
	require.Nil(t, resp.Error)
	res := toolResultFrom(t, resp)
	assert.True(t, res.IsError)
	assert.Equal(t, "upstream exploded", res.Content[0].Text)
}

func TestToolsCall_UnauthorizedError_UnifiedMessage(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"locked","arguments":{}}}`)
	resp := decodeRPC(t, rec)

	require.Nil(t, resp.Error)
	res := toolResultFrom(t, resp)
	assert.True(t, res.IsError)
	assert.Equal(t, "unauthorized: invalid or expired session token", res.Content[0].Text)
}

func TestToolsCall_UnknownTool(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
}

func TestToolsCall_MissingName(t *testing.T) {
	rec := postMCP(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
}

func TestInvalidJSON(t *testing.T) {
	rec := postMCP(t, testServer(), `{not json`)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ParseError, resp.Error.Code)
}

func TestWrongJSONRPCVersion(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"1.0","id":1,"method":"ping"}`)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidRequest, resp.Error.Code)
}

func TestNotification_Accepted(t *testing.T) {
	rec := postMCP(t, testServer(), `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMessages_MissingSessionID(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.handleMessages(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessages_UnknownStream(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/messages?sessionId=nosuch", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.handleMessages(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestSSERoundTrip opens a stream, posts a request against its session and
// reads the response back as a message event.
func TestSSERoundTrip(t *testing.T) {
	s := testServer()
	r := chi.NewRouter()
	s.Routes(r)
	ts := httptest.NewServer(r)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	event, data := readEvent(t, reader)
	require.Equal(t, "endpoint", event)
	require.True(t, strings.HasPrefix(data, "/messages?sessionId="))

	body := `{"jsonrpc":"2.0","id":42,"method":"tools/call","params":{"name":"echo","arguments":{"text":"via stream"}}}`
	post, err := http.Post(ts.URL+data, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusAccepted, post.StatusCode)

	event, data = readEvent(t, reader)
	require.Equal(t, "message", event)

	var rpc JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(data), &rpc))
	assert.Equal(t, "42", string(rpc.ID))
	res := toolResultFrom(t, rpc)
	assert.Equal(t, "via stream", res.Content[0].Text)
}

// readEvent consumes one SSE event, skipping keepalive comments.
func readEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "" && event != "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

// toolResultFrom re-decodes the generic result map into a ToolResult.
func toolResultFrom(t *testing.T, resp JSONRPCResponse) ToolResult {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var res ToolResult
	require.NoError(t, json.Unmarshal(b, &res))
	return res
}
