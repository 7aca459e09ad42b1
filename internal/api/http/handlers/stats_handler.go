package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/observability"
	"github.com/spec-kit/cms-console/internal/service"
)

// StatsHandler exposes dashboard analytics and the console's own counters.
type StatsHandler struct {
	stats   *service.StatsService
	metrics *observability.Metrics
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService, metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{stats: stats, metrics: metrics}
}

// Metrics handles GET /api/stats.
func (h *StatsHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.stats.Metrics()})
}

// Fetch handles GET /api/stats/:metric.
func (h *StatsHandler) Fetch(c *fiber.Ctx) error {
	out, err := h.stats.Fetch(c.UserContext(), c.Params("metric"))
	if err != nil {
		return err
	}
	c.Type("json")
	return c.Send(out)
}

// Console handles GET /api/console/metrics.
func (h *StatsHandler) Console(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
