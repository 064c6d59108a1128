package handler

import (
	"github.com/gin-gonic/gin"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/dto"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// BalanceHandler handles consolidated balance API endpoints
type BalanceHandler struct {
	BaseHandler
	balanceService *revenueapp.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *revenueapp.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// RegisterRoutes registers balance routes on the given group
func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balances := rg.Group("/balances")
	{
		balances.POST("/snapshots", h.Generate)
		balances.GET("/snapshots", h.List)
		balances.GET("/snapshots/:id", h.Get)
	}
}

// Generate recomputes the tenant's consolidated balances from scratch and
// stores the result as a snapshot
func (h *BalanceHandler) Generate(c *gin.Context) {
	var req revenueapp.GenerateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.balanceService.GenerateSnapshot(c.Request.Context(), middleware.GetTenantContext(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a balance snapshot by ID
func (h *BalanceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid snapshot ID format")
		return
	}

	resp, err := h.balanceService.GetSnapshot(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the tenant's balance snapshots, newest period first
func (h *BalanceHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	snapshots, err := h.balanceService.ListSnapshots(c.Request.Context(), middleware.GetTenantContext(c), req.Page, req.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, snapshots)
}
