package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
	"github.com/spec-kit/user-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Admin        *handlers.AdminHandler
	Service      *handlers.ServiceHandler
	Auth         *auth.AuthMiddleware
	ServiceToken *auth.ServiceTokenMiddleware
}

// RegisterRoutes wires HTTP routes. Gates always run in order: bearer auth
// first, then the role gate; the service route sits on its own trust path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)

	app.Get("/profile", cfg.Auth.Handle, cfg.Users.GetProfile)
	app.Put("/update", cfg.Auth.Handle, cfg.Users.UpdateProfile)

	admin := app.Group("/users", cfg.Auth.Handle, auth.RequireAdmin())
	admin.Get("/", cfg.Admin.ListUsers)
	admin.Delete("/:userId", cfg.Admin.DeleteUser)

	app.Get("/service/users/:userId", cfg.ServiceToken.Handle, cfg.Service.GetUserByID)
}
