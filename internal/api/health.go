package api

import (
	"context"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Pinger is the store-connectivity check the health endpoint uses. The
// in-memory store does not implement it; health then reports "unknown".
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the root info endpoint and dependency health.
type HealthHandler struct {
	cfg    *config.Config
	pinger Pinger
}

// NewHealthHandler creates a health handler. pinger may be nil.
func NewHealthHandler(cfg *config.Config, pinger Pinger) *HealthHandler {
	return &HealthHandler{cfg: cfg, pinger: pinger}
}

// Info returns the worker identity and current UTC accounting date.
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":     true,
		"worker": h.cfg.Server.WorkerName,
		"date":   time.Now().UTC().Format("2006-01-02"),
		"env":    h.cfg.Server.Environment,
	})
}

// HealthCheck reports the health of the service and its store.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	storeStatus := h.checkStore()

	status := "healthy"
	code := fiber.StatusOK
	if storeStatus == "unhealthy" {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": fiber.Map{
			"store": storeStatus,
		},
	})
}

func (h *HealthHandler) checkStore() string {
	if h.pinger == nil {
		return "unknown"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}
