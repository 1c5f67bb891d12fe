package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mentor-go-api/internal/config"
	"github.com/noah-isme/mentor-go-api/internal/handler"
	"github.com/noah-isme/mentor-go-api/internal/middleware"
	"github.com/noah-isme/mentor-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AnalysisHandler *handler.AnalysisHandler
	ProblemHandler  *handler.ProblemHandler
	UserHandler     *handler.UserHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		users := api.Group("/users")
		deps.UserHandler.Register(users)
	}

	if deps.AnalysisHandler != nil {
		analyze := api.Group("/analyze", jwtMiddleware, middleware.RateLimit("analyze", 20, time.Minute))
		deps.AnalysisHandler.Register(analyze)
	}

	if deps.ProblemHandler != nil {
		problems := api.Group("/problems", jwtMiddleware)
		deps.ProblemHandler.Register(problems)
	}
}
