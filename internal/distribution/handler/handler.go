// Package handler exposes the distribution engine over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/service"
	"leadmarket_backend/internal/distribution/transport"
	"leadmarket_backend/platform/httpkit"
	"leadmarket_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead ID"
)

// Handler handles HTTP requests for the distribution engine.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new distribution handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Distribute runs the pipeline for one lead.
// POST /api/v1/distribution/leads/:id
func (h *Handler) Distribute(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	result, err := h.svc.DistributeLead(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// BatchDistribute runs the pipeline over many leads.
// POST /api/v1/distribution/batch
func (h *Handler) BatchDistribute(c *gin.Context) {
	var req transport.BatchDistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.BatchDistribute(c.Request.Context(), req.LeadIDs, req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reject records an agency's rejection and attempts reassignment.
// POST /api/v1/distribution/leads/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	var req transport.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Reject(c.Request.Context(), leadID, req.AgencyID, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DirectAssign is the admin override to a named agency.
// POST /api/v1/admin/distribution/leads/:id/assign
func (h *Handler) DirectAssign(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	var req transport.DirectAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	assignment, err := h.svc.AssignToAgency(c.Request.Context(), leadID, req.AgencyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, assignment)
}

// Stats returns the distribution rollup.
// GET /api/v1/distribution/stats?territoryType=zipcode&territoryValue=75201
func (h *Handler) Stats(c *gin.Context) {
	territory, ok := optionalTerritory(c)
	if !ok {
		return
	}

	result, err := h.svc.Stats(c.Request.Context(), territory)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Eligibility is a dry run of the eligibility stages.
// GET /api/v1/distribution/eligibility?territoryType=zipcode&territoryValue=75201&industry=roofing
func (h *Handler) Eligibility(c *gin.Context) {
	var req transport.EligibilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	territory := domain.Territory{
		Type:  domain.TerritoryType(req.TerritoryType),
		Value: req.TerritoryValue,
	}
	result, err := h.svc.FindEligibleAgencies(c.Request.Context(), territory, req.Industry)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// FilterCapacity narrows agencies to those able to accept another lead.
// POST /api/v1/distribution/agencies/filter
func (h *Handler) FilterCapacity(c *gin.Context) {
	var req transport.CapacityFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.FilterBySubscriptionLimits(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AssignmentHistory returns the full assignment history for a lead.
// GET /api/v1/distribution/leads/:id/assignments
func (h *Handler) AssignmentHistory(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	assignments, err := h.svc.AssignmentHistory(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, assignments)
}

// RegisterRoutes mounts distribution routes on the provided groups.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.POST("/leads/:id", h.Distribute)
	protected.POST("/leads/:id/reject", h.Reject)
	protected.GET("/leads/:id/assignments", h.AssignmentHistory)
	protected.POST("/batch", h.BatchDistribute)
	protected.GET("/stats", h.Stats)
	protected.GET("/eligibility", h.Eligibility)
	protected.POST("/agencies/filter", h.FilterCapacity)

	admin.POST("/leads/:id/assign", h.DirectAssign)
}

// optionalTerritory parses the optional territory scope from query params.
// Returns false after writing an error response when the pair is malformed.
func optionalTerritory(c *gin.Context) (*domain.Territory, bool) {
	territoryType := strings.TrimSpace(c.Query("territoryType"))
	territoryValue := strings.TrimSpace(c.Query("territoryValue"))
	if territoryType == "" && territoryValue == "" {
		return nil, true
	}
	if territoryType == "" || territoryValue == "" {
		httpkit.Error(c, http.StatusBadRequest, "territoryType and territoryValue must be provided together", nil)
		return nil, false
	}

	switch domain.TerritoryType(territoryType) {
	case domain.TerritoryZipcode, domain.TerritoryCity, domain.TerritoryCounty, domain.TerritoryState:
	default:
		httpkit.Error(c, http.StatusBadRequest, "unknown territory type", nil)
		return nil, false
	}

	return &domain.Territory{
		Type:  domain.TerritoryType(territoryType),
		Value: territoryValue,
	}, true
}
