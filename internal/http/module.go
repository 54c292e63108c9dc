package http

import (
	"leadmarket_backend/platform/config"
	"leadmarket_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is implemented by each bounded context so it can mount its own
// routes. The router stays ignorant of individual endpoints.
type Module interface {
	// Name identifies the module in logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the route groups and shared middleware a module
// may need when registering.
type RouterContext struct {
	// Engine is exposed for the rare module needing engine-level hooks.
	Engine *gin.Engine
	// V1 is /api/v1 without auth.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind the auth middleware.
	Protected *gin.RouterGroup
	// Admin is /api/v1/admin behind auth plus the admin role check.
	Admin *gin.RouterGroup
	// Config carries only the JWT settings modules may need.
	Config config.JWTConfig
	// AuthMiddleware lets a module guard extra groups of its own.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter throttles credential endpoints.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
