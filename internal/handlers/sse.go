package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/votethebeat/backend/internal/broker"
)

// SSEHandler serves Server-Sent Events streams for real-time queue updates.
type SSEHandler struct {
	hub *broker.Broker
}

// NewSSEHandler creates an SSEHandler backed by the given broker.
func NewSSEHandler(hub *broker.Broker) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream opens an SSE connection scoped to one session. Opening the stream is
// the join: any connection naming a session id is admitted. After an initial
// "connected" event, every accepted mutation of that session's queue arrives
// as an event carrying the full resulting record. Events published before the
// stream opened are gone; the client catches up with its initial state fetch.
// A heartbeat comment is sent every 30 seconds to keep the connection alive
// through proxies.
func (h *SSEHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.hub.Subscribe(sessionID)
	defer h.hub.Unsubscribe(sessionID, ch)

	// Send initial connected event
	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
