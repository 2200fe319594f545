package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/observability"
)

// SystemHandler serves the clock widget and the metrics snapshot.
type SystemHandler struct {
	clock   clock.Clock
	metrics *observability.Metrics
}

func NewSystemHandler(clk clock.Clock, metrics *observability.Metrics) *SystemHandler {
	if clk == nil {
		clk = clock.Real()
	}
	return &SystemHandler{clock: clk, metrics: metrics}
}

// Time GET /api/time returns epoch milliseconds.
func (h *SystemHandler) Time(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.TimeResponse{Time: clock.UnixMilli(h.clock)}})
}

// Metrics GET /metrics.
func (h *SystemHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
