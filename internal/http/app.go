// Package http wires domain modules into the Gin router.
package http

import (
	"context"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/platform/config"
	"leadmarket_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker is what the health endpoint probes, in practice the
// database pool.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries the initialized dependencies from the composition root in
// main.go to the router.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
