// Package handler exposes agency and territory management over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadmarket_backend/internal/agencies/service"
	"leadmarket_backend/internal/agencies/transport"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/validator"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidAgencyID    = "invalid agency ID"
	msgInvalidTerritoryID = "invalid territory ID"
)

// Handler handles HTTP requests for agency management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new agencies handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create registers a new agency.
// POST /api/v1/admin/agencies
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	agency, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, agency)
}

// Get retrieves an agency.
// GET /api/v1/agencies/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	agency, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, agency)
}

// List returns a filtered page of agencies.
// GET /api/v1/agencies
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAgenciesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies partial changes to an agency.
// PATCH /api/v1/admin/agencies/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	var req transport.UpdateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	agency, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, agency)
}

// Delete removes an agency.
// DELETE /api/v1/admin/agencies/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}

// AddTerritory grants an agency a territory.
// POST /api/v1/admin/agencies/:id/territories
func (h *Handler) AddTerritory(c *gin.Context) {
	agencyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	var req transport.AddTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	territory, err := h.svc.AddTerritory(c.Request.Context(), agencyID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, territory)
}

// ListTerritories returns an agency's territories.
// GET /api/v1/agencies/:id/territories
func (h *Handler) ListTerritories(c *gin.Context) {
	agencyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	territories, err := h.svc.ListTerritories(c.Request.Context(), agencyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"territories": territories, "total": len(territories)})
}

// UpdateTerritory toggles activation or changes priority.
// PATCH /api/v1/admin/territories/:id
func (h *Handler) UpdateTerritory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTerritoryID, nil)
		return
	}

	var req transport.UpdateTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	territory, err := h.svc.UpdateTerritory(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, territory)
}

// ConflictReport lists territories owned by multiple agencies.
// GET /api/v1/admin/territories/conflicts
func (h *Handler) ConflictReport(c *gin.Context) {
	report, err := h.svc.ConflictReport(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

// RegisterRoutes mounts the agency and territory endpoints.
func (h *Handler) RegisterRoutes(protected, admin, adminTerritories *gin.RouterGroup) {
	protected.GET("", h.List)
	protected.GET("/:id", h.Get)
	protected.GET("/:id/territories", h.ListTerritories)

	admin.POST("", h.Create)
	admin.PATCH("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
	admin.POST("/:id/territories", h.AddTerritory)

	adminTerritories.GET("/conflicts", h.ConflictReport)
	adminTerritories.PATCH("/:id", h.UpdateTerritory)
}
