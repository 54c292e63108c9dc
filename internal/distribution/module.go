// Package distribution provides the lead distribution bounded context:
// eligibility filtering, capacity gating, round-robin selection, and
// assignment lifecycle.
package distribution

import (
	"leadmarket_backend/internal/distribution/handler"
	"leadmarket_backend/internal/distribution/repository"
	"leadmarket_backend/internal/distribution/service"
	"leadmarket_backend/internal/events"
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the distribution bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the distribution module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "distribution"
}

// Service returns the distribution service for external use (scheduler sweep).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts distribution routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	protected := ctx.Protected.Group("/distribution")
	admin := ctx.Admin.Group("/distribution")
	m.handler.RegisterRoutes(protected, admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
