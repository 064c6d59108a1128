package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// ObligationHandler handles performance obligation API endpoints
type ObligationHandler struct {
	BaseHandler
	obligationService *revenueapp.ObligationService
}

// NewObligationHandler creates a new ObligationHandler
func NewObligationHandler(obligationService *revenueapp.ObligationService) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService}
}

// RegisterRoutes registers obligation routes on the given group
func (h *ObligationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts/:id/obligations", h.Create)
	obligations := rg.Group("/obligations")
	{
		obligations.GET("/:id", h.Get)
		obligations.PATCH("/:id/progress", h.UpdateProgress)
	}
	rg.GET("/versions/:id/obligations", h.ListByVersion)
}

// Create allocates an obligation against a contract and generates its
// billing schedule in the same transaction
func (h *ObligationHandler) Create(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}
	var req revenueapp.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.obligationService.CreateObligation(c.Request.Context(), middleware.GetTenantContext(c), contractID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns an obligation by ID
func (h *ObligationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	resp, err := h.obligationService.GetObligation(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByVersion lists the obligations allocated under a contract version
func (h *ObligationHandler) ListByVersion(c *gin.Context) {
	versionID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid version ID format")
		return
	}

	resp, err := h.obligationService.ListObligations(c.Request.Context(), middleware.GetTenantContext(c), versionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProgressRequest carries the new percent-complete for an obligation
type UpdateProgressRequest struct {
	PercentComplete decimal.Decimal `json:"percent_complete" binding:"required"`
}

// UpdateProgress advances an obligation's percent-complete
func (h *ObligationHandler) UpdateProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.obligationService.UpdateProgress(c.Request.Context(), middleware.GetTenantContext(c), id, req.PercentComplete)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
