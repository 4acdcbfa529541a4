package analytics

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the query report over HTTP
type Handler struct {
	analytics *QueryAnalytics
}

func NewHandler(analytics *QueryAnalytics) *Handler {
	return &Handler{analytics: analytics}
}

// RegisterRoutes mounts the report under the given router, normally the
// authenticated /api/v1 group.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/analytics/voice", h.GetReport)
}

// GetReport handles GET /api/v1/analytics/voice
func (h *Handler) GetReport(c *fiber.Ctx) error {
	return c.JSON(h.analytics.Report())
}
