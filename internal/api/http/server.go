package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/app"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// NewServer builds the fiber application on top of a bootstrapped App.
func NewServer(a *app.App) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               a.Config.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
	})
	RegisterMiddlewares(server, a.Logger, a.Metrics, a.Config.App.RequestTimeout())

	var cache handlers.CachePinger
	if a.Redis != nil {
		cache = a.Redis
	}

	RegisterRoutes(server, RouteConfig{
		Health:         handlers.NewHealthHandler(a.Config.App.Name, a.Config.App.Version, a, cache, a.Metrics),
		Users:          handlers.NewUsersHandler(a.Auth),
		Tickets:        handlers.NewTicketsHandler(a.Tickets),
		Admin:          handlers.NewAdminHandler(a.Auth, a.Dashboard),
		AuthMiddleware: auth.NewAuthMiddleware(a.Auth.TokenManager(), a.Repos.Users),
	})
	return server
}
