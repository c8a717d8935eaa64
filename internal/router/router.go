package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/handler"
	"github.com/iliyamo/box-connector/internal/middleware"
)

// Register wires the whole webhook surface. The health check is public; the
// control plane calls everything else under /v1 with a signed request, so
// the /v1 group carries the authentication chain (plus any extra middleware
// the caller supplies, e.g. rate limiting).
func Register(e *echo.Echo, cfg config.Config, app *handler.AppHandler, tenant *handler.TenantHandler, user *handler.UserHandler, extra ...echo.MiddlewareFunc) {
	e.GET("/", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.RequestLog())
	for _, mw := range extra {
		v1.Use(mw)
	}
	v1.Use(middleware.Auth(cfg))

	// Application instance lifecycle.
	v1.POST("/app", app.Create)
	v1.GET("/app/:id", app.Get)
	v1.PUT("/app/:id", app.Update)
	v1.DELETE("/app/:id", app.Delete)
	v1.POST("/app/:id/tenants", app.TenantBound)
	v1.DELETE("/app/:id/tenants/:tenantId", app.TenantUnbound)
	v1.PUT("/app/:id/upgrade", app.Upgrade)

	// Tenant lifecycle.
	v1.POST("/tenant", tenant.Create)
	v1.GET("/tenant/:id", tenant.Get)
	v1.PUT("/tenant/:id", tenant.Update)
	v1.DELETE("/tenant/:id", tenant.Delete)
	v1.PUT("/tenant/:id/disable", tenant.Disable)
	v1.PUT("/tenant/:id/enable", tenant.Enable)
	v1.GET("/tenant/:id/adminlogin", tenant.AdminLogin)
	v1.POST("/tenant/:id/users", tenant.UserCreated)
	v1.DELETE("/tenant/:id/users/:userId", tenant.UserRemoved)

	// User lifecycle.
	v1.POST("/user", user.Create)
	v1.GET("/user/:id", user.Get)
	v1.PUT("/user/:id", user.Update)
	v1.DELETE("/user/:id", user.Delete)
	v1.GET("/user/:id/login", user.Login)
}
