// Package agencies provides the agency bounded context: customer
// registration, subscription state, and territory ownership.
package agencies

import (
	"leadmarket_backend/internal/agencies/handler"
	"leadmarket_backend/internal/agencies/repository"
	"leadmarket_backend/internal/agencies/service"
	apphttp "leadmarket_backend/internal/http"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agencies bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the agencies module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agencies"
}

// RegisterRoutes mounts agency routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	protected := ctx.Protected.Group("/agencies")
	admin := ctx.Admin.Group("/agencies")
	adminTerritories := ctx.Admin.Group("/territories")
	m.handler.RegisterRoutes(protected, admin, adminTerritories)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
