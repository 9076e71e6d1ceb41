// Package hub fans broadcast traffic out to dashboard websocket
// subscribers using the channel-based hub pattern. One hub serves one
// visualization channel (overlay frames or chart frames); each carries
// two payload kinds, rendered JPEG frames and JSON snapshots.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/blazeintel/go-overlay/internal/log"
)

// payload is one outbound dashboard message. Frames travel as binary
// websocket messages, snapshots as text.
type payload struct {
	binary bool
	data   []byte
}

// Hub maintains the set of subscribed dashboard clients and fans
// payloads out to them.
type Hub struct {
	// Name for logging (e.g. "overlay", "chart")
	name string

	// Subscribed clients
	clients map[*Client]bool

	// Outbound payloads to fan out
	broadcast chan payload

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards the client set for ClientCount readers; all map mutation
	// happens on the Run goroutine
	mu sync.RWMutex
}

// New creates a hub for the named channel.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan payload, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop. Call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client connected", "hub", h.name, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client disconnected", "hub", h.name, "total", count)

		case p := <-h.broadcast:
			// Write lock: slow clients are evicted mid-iteration
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- p:
					// Payload queued successfully
				default:
					// Client's buffer is full - they're too slow
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow dashboard client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) send(p payload) {
	select {
	case h.broadcast <- p:
	default:
		// Broadcast channel full - a stalled hub must not stall the
		// render loop
		log.Warn("broadcast channel full, dropping payload", "hub", h.name)
	}
}

// BroadcastJSON encodes v and fans it out as a text message.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.send(payload{data: data})
	return nil
}

// BroadcastFrame fans a rendered JPEG frame out as a binary message.
func (h *Hub) BroadcastFrame(data []byte) {
	h.send(payload{binary: true, data: data})
}

// ClientCount returns the number of subscribed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
