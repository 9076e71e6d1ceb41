package web

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "go-overlay",
		"clients": fiber.Map{
			"overlay": s.overlayHub.ClientCount(),
			"chart":   s.chartHub.ClientCount(),
		},
	})
}

// handleSnapshot returns the overlay's immutable export record.
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	return c.JSON(s.ov.Export())
}

func (s *Server) handleGetConsent(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"granted": s.ov.Active()})
}

// handleGrantConsent is the single user interaction that flips the
// consent flag; the overlay transition is irreversible for the session.
func (s *Server) handleGrantConsent(c *fiber.Ctx) error {
	if err := s.ov.GrantConsent(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"granted": true})
}

// handleDashboard proxies cached dashboard content (team stats, scores,
// predictions) from the upstream source.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	if s.stats == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no stats source configured"})
	}

	body, err := s.stats.Get(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
