package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *revenueapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *revenueapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes on the given group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts/:id/journal", h.ContractJournal)
	rg.POST("/reports/reconciliation", h.Reconciliation)
}

// ContractJournal returns the chronological journal of billing and ledger
// activity for one contract
func (h *ReportHandler) ContractJournal(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	resp, err := h.reportService.ContractJournal(c.Request.Context(), middleware.GetTenantContext(c), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReconciliationRequest carries opening balances keyed by account name
type ReconciliationRequest struct {
	OpeningBalances map[string]decimal.Decimal `json:"opening_balances"`
}

// Reconciliation rolls posted ledger activity forward from the supplied
// opening balances
func (h *ReportHandler) Reconciliation(c *gin.Context) {
	var req ReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reportService.Reconciliation(c.Request.Context(), middleware.GetTenantContext(c), req.OpeningBalances)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
