package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/dto"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// LedgerHandler handles ledger entry API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *revenueapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *revenueapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers ledger routes on the given group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries", h.Create)
		ledger.GET("/entries", h.List)
		ledger.GET("/entries/:id", h.Get)
		ledger.POST("/entries/:id/post", h.Post)
		ledger.POST("/post-all", h.PostAll)
	}
}

// Create records a new unposted ledger entry
func (h *LedgerHandler) Create(c *gin.Context) {
	var req revenueapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ledgerService.CreateEntry(c.Request.Context(), middleware.GetTenantContext(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a ledger entry by ID
func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	resp, err := h.ledgerService.GetEntry(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the tenant's ledger entries, filterable by contract, type
// and posted state
func (h *LedgerHandler) List(c *gin.Context) {
	var filter revenueapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), middleware.GetTenantContext(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// Post finalizes a single entry. Posting is idempotent; a second call
// returns the already-posted entry unchanged.
func (h *LedgerHandler) Post(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	resp, err := h.ledgerService.Post(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// PostAll posts every unposted entry for the tenant in entry-date order.
// On a mid-batch failure the entries posted so far stay posted and the
// failing entry ID is reported alongside the count.
func (h *LedgerHandler) PostAll(c *gin.Context) {
	result, err := h.ledgerService.PostAll(c.Request.Context(), middleware.GetTenantContext(c))
	if err != nil {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal,
			"Batch posting stopped before completion", middleware.GetRequestID(c))
		resp.Data = result
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	h.Success(c, result)
}
