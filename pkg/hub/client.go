package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// Write and keepalive pacing for dashboard connections.
const (
	// writeWait bounds each frame write
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before declaring the
	// dashboard gone
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Dashboards never send payloads; the read limit only bounds
	// control frames and stray input
	readLimit = 1024
)

// Client is one dashboard websocket subscriber. Dashboards are
// receive-only: the service pushes frames and snapshots down, nothing
// but pongs comes back up.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan payload
}

// NewClient registers a new subscriber with the hub.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan payload, 256), // headroom for frame bursts
	}
	h.register <- c
	return c
}

// Run services the connection until it drops. Call it from the
// websocket handler; it blocks for the connection's lifetime.
func (c *Client) Run() {
	go c.writeFrames()
	c.awaitClose()
}

// awaitClose discards inbound traffic. Reading is still required: it
// feeds the pong handler and detects the dashboard going away.
func (c *Client) awaitClose() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeFrames is the only goroutine writing to the connection. JPEG
// frames go out as binary messages, JSON snapshots as text.
func (c *Client) writeFrames() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case p, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub evicted us - send a close frame
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			kind := websocket.TextMessage
			if p.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, p.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
