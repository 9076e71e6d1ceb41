// Package web provides the real-time dashboard server: websocket
// channels carrying rendered frames and metric snapshots, plus the
// REST surface for consent, snapshot export, and dashboard content.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/blazeintel/go-overlay/internal/log"
	"github.com/blazeintel/go-overlay/pkg/hub"
	"github.com/blazeintel/go-overlay/pkg/overlay"
	"github.com/blazeintel/go-overlay/pkg/statsfetch"
)

// Server is the dashboard server. It owns the broadcast hubs; the
// render loops hand it finished frames and snapshots.
type Server struct {
	app  *fiber.App
	port string

	ov    *overlay.Overlay
	stats *statsfetch.Client // nil when no upstream is configured

	overlayHub *hub.Hub
	chartHub   *hub.Hub
}

// NewServer creates a dashboard server for the given overlay instance.
// stats may be nil if no upstream content source is configured.
func NewServer(port string, ov *overlay.Overlay, stats *statsfetch.Client) *Server {
	s := &Server{
		port:       port,
		ov:         ov,
		stats:      stats,
		overlayHub: hub.New("overlay"),
		chartHub:   hub.New("chart"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-overlay",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/snapshot", s.handleSnapshot)
	api.Get("/consent", s.handleGetConsent)
	api.Post("/consent", s.handleGrantConsent)
	api.Get("/dashboard/*", s.handleDashboard)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/overlay", websocket.New(s.handleOverlayWS))
	app.Get("/ws/chart", websocket.New(s.handleChartWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until the listener fails.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.overlayHub.Run()
	go s.chartHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SendOverlayFrame broadcasts a rendered overlay JPEG to clients.
func (s *Server) SendOverlayFrame(jpeg []byte) {
	s.overlayHub.BroadcastFrame(jpeg)
}

// SendChartFrame broadcasts a rendered chart JPEG to clients.
func (s *Server) SendChartFrame(jpeg []byte) {
	s.chartHub.BroadcastFrame(jpeg)
}

// BroadcastJSON sends a JSON message on the overlay channel (metric
// snapshots, feed status changes).
func (s *Server) BroadcastJSON(v interface{}) error {
	return s.overlayHub.BroadcastJSON(v)
}

func (s *Server) handleOverlayWS(c *websocket.Conn) {
	hub.NewClient(s.overlayHub, c).Run()
}

func (s *Server) handleChartWS(c *websocket.Conn) {
	hub.NewClient(s.chartHub, c).Run()
}
