// Package feed wraps a push-style websocket feed with automatic
// reconnection. The client never gives up: every transport failure
// schedules another attempt after a fixed delay.
package feed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/blazeintel/go-overlay/internal/log"
	"github.com/blazeintel/go-overlay/pkg/protocol"
)

// ReconnectDelay is the fixed wait between a transport failure and the
// next connection attempt.
const ReconnectDelay = 5 * time.Second

// State is the client's connection state.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn is the minimal transport surface the client needs. The
// production implementation wraps a gorilla websocket connection.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer opens a transport connection to the feed endpoint.
type Dialer interface {
	Dial(url string) (Conn, error)
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.c.ReadMessage()
	return data, err
}

func (w *wsConn) Close() error {
	return w.c.Close()
}

// WebsocketDialer dials with gorilla's default websocket dialer.
type WebsocketDialer struct{}

// Dial opens a websocket connection.
func (WebsocketDialer) Dial(url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{c: c}, nil
}

// Config holds the client's endpoint and injectable collaborators.
type Config struct {
	// URL is the caller-supplied feed endpoint.
	URL string

	// Name labels the feed in logs and status broadcasts.
	Name string

	// Delay between reconnect attempts. Zero means ReconnectDelay.
	Delay time.Duration

	// Dialer opens connections. Nil means the websocket dialer.
	Dialer Dialer

	// After schedules the reconnect wait. Nil means time.After.
	// Injectable so reconnect timing is deterministic in tests.
	After func(d time.Duration) <-chan time.Time
}

// Client is the reconnecting feed consumer. Incoming messages are
// parsed and handed to the OnMessage callback; malformed payloads are
// logged and dropped without touching the connection state.
type Client struct {
	cfg       Config
	onMessage func(*protocol.Message)
	onState   func(State)

	mu      sync.Mutex
	state   State
	conn    Conn
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewClient creates a client for the given endpoint. Start begins
// consuming; the callback runs on the client's goroutine.
func NewClient(cfg Config, onMessage func(*protocol.Message)) *Client {
	if cfg.Delay <= 0 {
		cfg.Delay = ReconnectDelay
	}
	if cfg.Dialer == nil {
		cfg.Dialer = WebsocketDialer{}
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	return &Client{cfg: cfg, onMessage: onMessage}
}

// OnStateChange registers a callback fired on every state transition.
// Must be set before Start.
func (c *Client) OnStateChange(fn func(State)) {
	c.onState = fn
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches the connect/read/reconnect loop.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
}

// Close halts the loop and closes any open connection. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	conn := c.conn
	c.mu.Unlock()

	close(stop)
	if conn != nil {
		conn.Close() // unblocks the reader
	}
	<-done
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	changed := c.state != s
	c.state = s
	fn := c.onState
	c.mu.Unlock()

	if changed && fn != nil {
		fn(s)
	}
}

func (c *Client) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer c.setState(Disconnected)

	for {
		select {
		case <-stop:
			return
		default:
		}

		c.setState(Connecting)
		conn, err := c.cfg.Dialer.Dial(c.cfg.URL)
		if err != nil {
			log.Warn("feed connect failed", "feed", c.cfg.Name, "url", c.cfg.URL, "error", err)
			c.setState(Disconnected)
			if !c.waitReconnect(stop) {
				return
			}
			continue
		}

		c.mu.Lock()
		if !c.running {
			// Closed while the dial was in flight: Close already
			// snapshotted a nil conn, so nothing else will close this one
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()
		c.setState(Connected)
		log.Info("feed connected", "feed", c.cfg.Name, "url", c.cfg.URL)

		c.readLoop(conn, stop)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		c.setState(Disconnected)

		if !c.waitReconnect(stop) {
			return
		}
	}
}

// readLoop consumes messages until the transport fails or the client
// is closed.
func (c *Client) readLoop(conn Conn, stop <-chan struct{}) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-stop:
			default:
				log.Warn("feed read error", "feed", c.cfg.Name, "error", err)
			}
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			// Malformed payload: drop it, keep the connection
			log.Warn("dropping malformed feed message", "feed", c.cfg.Name, "error", err)
			continue
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// waitReconnect blocks for the reconnect delay. Returns false if the
// client was closed while waiting.
func (c *Client) waitReconnect(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return false
	case <-c.cfg.After(c.cfg.Delay):
		return true
	}
}
