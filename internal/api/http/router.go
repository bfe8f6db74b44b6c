package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/api/http/handlers"
	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Roles          *handlers.RolesHandler
	Users          *handlers.UsersHandler
	Students       *handlers.StudentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Gate           *auth.PermissionGate
	LoginLimiter   fiber.Handler
}

// RegisterRoutes wires HTTP routes. Reads only need a valid session; every
// mutation also passes the permission gate for its resource.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	limit := cfg.LoginLimiter
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limit, cfg.Auth.Login)
	authGroup.Post("/refresh", limit, cfg.Auth.Refresh)
	authGroup.Get("/verify", cfg.AuthMiddleware.Handle, cfg.Auth.Verify)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	gate := cfg.Gate

	roles := protected.Group("/roles")
	roles.Get("/role/default", cfg.Roles.GetDefault)
	roles.Put("/role/default", gate.Require(domain.ResourceMasterData, domain.ActionUpdate), cfg.Roles.SetDefault)
	roles.Post("/find", cfg.Roles.Find)
	roles.Get("/:roleId", cfg.Roles.Get)
	roles.Post("", gate.Require(domain.ResourceMasterData, domain.ActionCreate), cfg.Roles.Create)
	roles.Put("", gate.Require(domain.ResourceMasterData, domain.ActionUpdate), cfg.Roles.Update)
	roles.Delete("/:roleId", gate.Require(domain.ResourceMasterData, domain.ActionDelete), cfg.Roles.Delete)

	students := protected.Group("/students")
	students.Post("/find", cfg.Students.Find)
	students.Get("/:studentId", cfg.Students.Get)
	students.Post("", gate.Require(domain.ResourceMasterData, domain.ActionCreate), cfg.Students.Create)
	students.Put("", gate.Require(domain.ResourceMasterData, domain.ActionUpdate), cfg.Students.Update)
	students.Delete("/:studentId", gate.Require(domain.ResourceMasterData, domain.ActionDelete), cfg.Students.Delete)

	users := protected.Group("/users")
	users.Get("/profile/details", cfg.Users.ProfileDetails)
	users.Get("/profile/permissions", cfg.Users.ProfilePermissions)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Get("/username/available/:username", cfg.Users.UsernameAvailable)
	users.Put("/change-role", gate.Require(domain.ResourceUsers, domain.ActionUpdate), cfg.Users.ChangeRole)
	users.Post("/find", cfg.Users.Find)
	users.Get("/:userId", cfg.Users.Get)
	users.Post("", gate.Require(domain.ResourceUsers, domain.ActionCreate), cfg.Users.Create)
	users.Delete("/:userId", gate.Require(domain.ResourceUsers, domain.ActionDelete), cfg.Users.Delete)
}
