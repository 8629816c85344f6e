package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Key0string/SponsorBlockServer/internal/handler"
	"github.com/Key0string/SponsorBlockServer/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Vote    *handler.VoteHandler
	Segment *handler.SegmentHandler
	User    *handler.UserHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (outside the API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	// Vote routes
	api.Post("/voteOnSponsorTime", h.Vote.Submit)
	api.Post("/viewedVideoSponsorTime", h.Vote.RecordView)

	// Segment routes
	api.Get("/skipSegments/:sha256HashPrefix", h.Segment.GetByHashPrefix)
	api.Get("/skipSegments", h.Segment.GetByVideoID)

	// User routes
	api.Get("/userInfo/:userId", h.User.GetByUserID)

	// Stats routes
	api.Get("/stats", h.Stats.GetStats)
}
