package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/storefront-mcp/internal/pkg/id"
)

// keepaliveInterval is how often an idle stream gets a comment line so
// intermediaries don't drop the connection.
const keepaliveInterval = 30 * time.Second

type sseClient struct {
	id string
	ch chan JSONRPCResponse
}

// streamHub tracks connected SSE streams so /messages responses can be
// routed back to the right one.
type streamHub struct {
	mu      sync.RWMutex
	clients map[string]*sseClient
}

func newStreamHub() *streamHub {
	return &streamHub{clients: make(map[string]*sseClient)}
}

func (h *streamHub) register() *sseClient {
	c := &sseClient{id: id.New(), ch: make(chan JSONRPCResponse, 16)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *streamHub) unregister(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func (h *streamHub) get(id string) (*sseClient, bool) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	return c, ok
}

// dispatch queues a response onto the stream; a full queue drops the
// message rather than blocking the worker.
func (h *streamHub) dispatch(id string, resp JSONRPCResponse) {
	c, ok := h.get(id)
	if !ok {
		return
	}
	select {
	case c.ch <- resp:
	default:
		slog.Warn("stream queue full, dropping response", "stream_id", id)
	}
}

// handleSSE opens the event stream: it announces the message-post endpoint
// for this stream, then relays JSON-RPC responses as message events.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := s.streams.register()
	defer s.streams.unregister(client.id)

	slog.Info("stream connected", "stream_id", client.id)

	fmt.Fprintf(w, "event: endpoint\ndata: /messages?sessionId=%s\n\n", client.id)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case resp := <-client.ch:
			b, err := json.Marshal(resp)
			if err != nil {
				slog.Warn("failed to marshal stream response", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", b)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			slog.Info("stream disconnected", "stream_id", client.id)
			return
		}
	}
}

// handleMessages accepts a JSON-RPC request for an open stream and answers
// 202 immediately; the response is delivered on the stream.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	streamID := r.URL.Query().Get("sessionId")
	if streamID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	if _, ok := s.streams.get(streamID); !ok {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}

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

	// The HTTP exchange ends before the tool call does; detach the context
	// so in-flight upstream calls are not cancelled with it.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		s.streams.dispatch(streamID, s.handle(ctx, *req))
	}()

	w.WriteHeader(http.StatusAccepted)
}
