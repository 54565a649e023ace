package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-triage/internal/api/dto"
	"github.com/spec-kit/helpdesk-triage/internal/auth"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	apperrors "github.com/spec-kit/helpdesk-triage/pkg/util"
)

// AnalyticsHandler exposes the retained routing history.
type AnalyticsHandler struct {
	analytics *routing.AnalyticsLog
	registry  *routing.Registry
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *routing.AnalyticsLog, registry *routing.Registry) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, registry: registry}
}

// History GET /analytics/history.
func (h *AnalyticsHandler) History(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsEntries(h.analytics.Entries())})
}

// Stats GET /analytics/stats.
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	stats := h.analytics.Stats()
	perHandler := make(map[string]float64, len(h.registry.Handlers()))
	for _, handler := range h.registry.Handlers() {
		perHandler[handler.Name()] = h.analytics.HandlerSuccessRate(handler.Name())
	}

	return c.JSON(fiber.Map{"data": dto.AnalyticsStatsResponse{
		TotalRouted:     stats.TotalRouted,
		MeanExecutionMS: stats.MeanExecution.Milliseconds(),
		HandlerUsage:    stats.HandlerUsage,
		SuccessRate:     stats.SuccessRate,
		HandlerSuccess:  perHandler,
	}})
}
