package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// hub fans progress events out to every connected websocket subscriber.
// Subscribers are read-only: incoming frames are drained and discarded.
type hub struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*websocket.Conn]struct{})}
}

func (h *hub) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	h.add(conn)
	defer h.remove(conn)

	// Block until the client goes away.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[conn] = struct{}{}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, conn)
}

// broadcast sends one event to every subscriber. Slow or broken subscribers
// are skipped, not waited on.
func (h *hub) broadcast(event map[string]any) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshaling event", "error", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for conn := range h.subs {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("dropping subscriber", "error", err)
		}
		cancel()
	}
}
