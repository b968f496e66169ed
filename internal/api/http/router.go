package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro-it/portal-api/internal/api/http/handlers"
	"github.com/pedro-it/portal-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Invoices       *handlers.InvoicesHandler
	Services       *handlers.ServicesHandler
	Chat           *handlers.ChatHandler
	Webhooks       *handlers.WebhooksHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Signature-verified, so outside the auth middleware.
	app.Post("/webhooks/stripe", cfg.Webhooks.HandleStripe)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	invoices := app.Group("/invoices", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	invoices.Post("", auth.RequireAdmin(), cfg.Invoices.CreateInvoice)
	invoices.Get("", cfg.Invoices.ListInvoices)
	invoices.Get("/:id", cfg.Invoices.GetInvoice)
	invoices.Post("/:id/checkout", cfg.Invoices.InitiateCheckout)
	invoices.Patch("/:id/status", auth.RequireAdmin(), cfg.Invoices.UpdateStatus)

	services := app.Group("/services", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	services.Get("", cfg.Services.ListCatalog)
	services.Post("", auth.RequireAdmin(), cfg.Services.CreateService)
	services.Get("/assignments", cfg.Services.ListAssignments)
	services.Post("/assign", auth.RequireAdmin(), cfg.Services.AssignService)
	services.Patch("/assignments/:id", auth.RequireAdmin(), cfg.Services.UpdateAssignment)
	services.Get("/:id", cfg.Services.GetService)
	services.Put("/:id", auth.RequireAdmin(), cfg.Services.UpdateService)

	chat := app.Group("/chat", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	chat.Post("/messages", cfg.Chat.SendMessage)
	chat.Get("/messages", cfg.Chat.History)
	chat.Delete("/messages", cfg.Chat.ClearHistory)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
}
