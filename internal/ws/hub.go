package ws

import (
	"encoding/json"
	"sync"

	"hebeos_todo/internal/domain"
	"hebeos_todo/internal/logger"
)

// Event is pushed to every connected client after a successful mutation.
type Event struct {
	Type string       `json:"type"` // created, updated, deleted
	Todo *domain.Todo `json:"todo,omitempty"`
	ID   string       `json:"id,omitempty"`
}

// Hub fans todo change events out to connected websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues the event on every client. A client whose send buffer is
// full misses the event; the feed is advisory, listing is the source of
// truth.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("encode ws event failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
