package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hahnsoftware/emp-records-api/internal/config"
	"github.com/hahnsoftware/emp-records-api/internal/handler"
	"github.com/hahnsoftware/emp-records-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	EmployeeHandler   *handler.EmployeeHandler
	DepartmentHandler *handler.DepartmentHandler
	AuditHandler      *handler.AuditHandler
	JWTMiddleware     fiber.Handler
	ActorMiddleware   fiber.Handler
	LoginRateLimit    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	actorMiddleware := deps.ActorMiddleware
	if actorMiddleware == nil {
		actorMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		loginRateLimit := deps.LoginRateLimit
		if loginRateLimit == nil {
			loginRateLimit = func(c *fiber.Ctx) error { return c.Next() }
		}
		auth.Post("/login", loginRateLimit, deps.AuthHandler.Login)
		auth.Post("/logout", jwtMiddleware, deps.AuthHandler.Logout)
	}

	// Every record route runs behind token validation plus an actor lookup so
	// policy decisions use the database state, not stale token claims.
	if deps.EmployeeHandler != nil {
		employees := api.Group("/employees", jwtMiddleware, actorMiddleware)
		deps.EmployeeHandler.Register(employees)
	}

	if deps.DepartmentHandler != nil {
		departments := api.Group("/departments", jwtMiddleware, actorMiddleware)
		deps.DepartmentHandler.Register(departments)
	}

	if deps.AuditHandler != nil {
		auditLogs := api.Group("/audit-logs", jwtMiddleware, actorMiddleware)
		deps.AuditHandler.Register(auditLogs)
	}
}
