package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single authenticated WebSocket connection.
type Client struct {
	UserID uint
	Send   chan []byte
	Hub    *Hub // set on Register so Close() can unregister
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	// Unregister before closing: Publish sends while holding the hub read
	// lock, so once unregister returns no send can still target this client.
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
	close(c.Send)
}

// Event is the wire envelope pushed to clients.
type Event struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Hub maintains the set of connected clients per user and fans committed
// wallet events out to them. Delivery is best-effort: a slow or dead
// connection drops the event rather than blocking the caller, so a publish
// can never stall or roll back a committed mutation. Events for one user
// are fanned out in call order.
type Hub struct {
	mu       sync.RWMutex
	draining bool
	clients  map[*Client]struct{}
	// userID -> clients (one user can have multiple sessions)
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[uint]map[*Client]struct{}),
	}
}

// Register adds an authenticated client. Returns false while draining.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draining {
		return false
	}
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// Publish delivers an event to every session the user currently has.
func (h *Hub) Publish(userID uint, eventType string, data map[string]interface{}) {
	payload, _ := json.Marshal(Event{Type: eventType, Data: data})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		select {
		case c.Send <- payload:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Drain stops accepting registrations and closes every connected client.
// Called on shutdown before the store handle is closed.
func (h *Hub) Drain() {
	h.mu.Lock()
	h.draining = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.Close()
	}
}
