package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	System         *handlers.SystemHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Contact        *handlers.ContactHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.System.Metrics)

	api := app.Group("/api")
	api.Get("/time", cfg.System.Time)
	api.Post("/contact", cfg.Contact.Submit)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	guard := cfg.AuthMiddleware.Handle
	authGroup.Get("/session", guard, cfg.Auth.Session)

	api.Get("/dashboard", guard, cfg.Tickets.Dashboard)
	api.Get("/tickets", guard, cfg.Tickets.ListTickets)
	api.Post("/tickets", guard, cfg.Tickets.CreateTicket)
	api.Get("/tickets/:id", guard, cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id", guard, cfg.Tickets.PatchTicket)
	api.Put("/tickets/:id", guard, cfg.Tickets.ReplaceTicket)
	api.Delete("/tickets/:id", guard, cfg.Tickets.DeleteTicket)
}
