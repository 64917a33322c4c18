package api

import (
	"github.com/Zeldorh1/omnitint-edge/internal/services/trends"

	"github.com/gofiber/fiber/v2"
)

// TrendsHandler serves GET /trends, the read-only cached trend feed.
type TrendsHandler struct {
	svc *trends.Service
}

// NewTrendsHandler wires up the trend feed endpoint.
func NewTrendsHandler(svc *trends.Service) *TrendsHandler {
	return &TrendsHandler{svc: svc}
}

// Trends always returns 200; a snapshot read failure yields an empty
// payload rather than an error status.
func (h *TrendsHandler) Trends(c *fiber.Ctx) error {
	return c.JSON(h.svc.Latest(c.Context()))
}
