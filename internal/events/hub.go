// Package events fans catalog lifecycle events out to websocket listeners.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const TypeCatalogRebuilt = "catalog.rebuilt"

// CatalogEvent announces a finished rebuild.
type CatalogEvent struct {
	Type       string    `json:"type"`
	RunID      string    `json:"run_id"`
	Images     int       `json:"images"`
	Duplicates int       `json:"duplicates"`
	Skipped    int       `json:"skipped"`
	DexEntries int       `json:"dex_entries"`
	At         time.Time `json:"at"`
}

type Hub struct {
	mu        sync.Mutex
	wsClients map[*websocket.Conn]struct{}
}

type Stats struct {
	WSClients int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{wsClients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON writes v to every client. Clients that fail the write are
// dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.With("component", "events").Error("marshal event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.wsClients {
		_ = ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{WSClients: len(h.wsClients)}
}
