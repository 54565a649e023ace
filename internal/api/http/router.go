package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/helpdesk-triage/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-triage/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Triage         *handlers.TriageHandler
	WorkItems      *handlers.WorkItemsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
	Registry       *prometheus.Registry
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/v1", cfg.AuthMiddleware.Handle)
	api.Post("/triage", cfg.Triage.Triage)
	api.Get("/work-items", cfg.WorkItems.List)
	api.Get("/work-items/:id", cfg.WorkItems.Get)
	api.Get("/analytics/history", cfg.Analytics.History)
	api.Get("/analytics/stats", cfg.Analytics.Stats)
}
