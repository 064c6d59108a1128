package handler

import (
	"github.com/gin-gonic/gin"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// ScheduleHandler handles billing schedule API endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *revenueapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *revenueapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// RegisterRoutes registers schedule routes on the given group
func (h *ScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	schedules := rg.Group("/schedules")
	{
		schedules.GET("", h.List)
		schedules.GET("/:id", h.Get)
		schedules.POST("/:id/invoice", h.MarkInvoiced)
		schedules.POST("/:id/pay", h.MarkPaid)
		schedules.POST("/:id/cancel", h.Cancel)
	}
}

// Get returns a billing schedule by ID
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	resp, err := h.scheduleService.GetSchedule(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the tenant's billing schedules, filterable by contract,
// obligation and status
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter revenueapp.ScheduleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedules, err := h.scheduleService.ListSchedules(c.Request.Context(), middleware.GetTenantContext(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, schedules)
}

// MarkInvoicedRequest carries the invoice number assigned to an installment
type MarkInvoicedRequest struct {
	InvoiceNumber string `json:"invoice_number" binding:"required"`
}

// MarkInvoiced records that an installment was invoiced
func (h *ScheduleHandler) MarkInvoiced(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}
	var req MarkInvoicedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.scheduleService.MarkInvoiced(c.Request.Context(), middleware.GetTenantContext(c), id, req.InvoiceNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPaid records payment against an invoiced installment
func (h *ScheduleHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}
	var req revenueapp.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.scheduleService.MarkPaid(c.Request.Context(), middleware.GetTenantContext(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel voids a pending installment
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	resp, err := h.scheduleService.CancelSchedule(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
