package handler

import (
	"github.com/gin-gonic/gin"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/interfaces/http/middleware"
)

// ContractHandler handles contract API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *revenueapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *revenueapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// RegisterRoutes registers contract routes on the given group
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.Get)
		contracts.POST("/:id/modify", h.Modify)
		contracts.POST("/:id/terminate", h.Terminate)
		contracts.DELETE("/:id", h.Delete)
	}
}

// Create creates an active contract with its initial version
func (h *ContractHandler) Create(c *gin.Context) {
	var req revenueapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contractService.CreateContract(c.Request.Context(), middleware.GetTenantContext(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a contract by ID
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	resp, err := h.contractService.GetContract(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the tenant's contracts with paging and filtering
func (h *ContractHandler) List(c *gin.Context) {
	var filter revenueapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	contracts, total, err := h.contractService.ListContracts(c.Request.Context(), middleware.GetTenantContext(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// Modify records a contract modification as a new version
func (h *ContractHandler) Modify(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}
	var req revenueapp.ModifyContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contractService.ModifyContract(c.Request.Context(), middleware.GetTenantContext(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Terminate ends a contract early
func (h *ContractHandler) Terminate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	resp, err := h.contractService.TerminateContract(c.Request.Context(), middleware.GetTenantContext(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a contract and everything hanging off it
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	if err := h.contractService.DeleteContract(c.Request.Context(), middleware.GetTenantContext(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
