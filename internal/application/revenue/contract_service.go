// Package revenue provides the application services of the revenue
// recognition engine: contract lifecycle, price allocation, billing schedule
// generation, ledger posting and consolidated balance snapshots.
package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
)

// ContractService provides application-level contract operations
type ContractService struct {
	contractRepo revenue.ContractRepository
	uow          revenue.UnitOfWork
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo revenue.ContractRepository, uow revenue.UnitOfWork) *ContractService {
	return &ContractService{contractRepo: contractRepo, uow: uow}
}

// ===================== Request / Response DTOs =====================

// CreateContractRequest carries the inputs for creating a contract.
// Date fields accept any of the supported date shapes (ISO-8601 string,
// datetime, unix seconds) and are normalized before use.
type CreateContractRequest struct {
	ContractNumber string          `json:"contract_number" binding:"required"`
	Name           string          `json:"name"`
	CustomerID     uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName   string          `json:"customer_name"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Currency       string          `json:"currency"`
	StartDate      interface{}     `json:"start_date"`
	EndDate        interface{}     `json:"end_date"`
}

// ModifyContractRequest carries the inputs for a contract modification,
// which snapshots the new terms as a fresh contract version
type ModifyContractRequest struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	Description   string          `json:"description"`
	EffectiveDate interface{}     `json:"effective_date"`
}

// ContractVersionResponse represents a contract version in API responses
type ContractVersionResponse struct {
	ID            uuid.UUID                `json:"id"`
	ContractID    uuid.UUID                `json:"contract_id"`
	VersionNumber int                      `json:"version_number"`
	EffectiveDate valueobject.CalendarDate `json:"effective_date"`
	Description   string                   `json:"description"`
	TotalValue    decimal.Decimal          `json:"total_value"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID               uuid.UUID                 `json:"id"`
	TenantID         uuid.UUID                 `json:"tenant_id"`
	ContractNumber   string                    `json:"contract_number"`
	Name             string                    `json:"name"`
	CustomerID       uuid.UUID                 `json:"customer_id"`
	CustomerName     string                    `json:"customer_name"`
	TotalValue       decimal.Decimal           `json:"total_value"`
	Currency         string                    `json:"currency"`
	Status           string                    `json:"status"`
	CurrentVersionID *uuid.UUID                `json:"current_version_id,omitempty"`
	StartDate        valueobject.CalendarDate  `json:"start_date"`
	EndDate          valueobject.CalendarDate  `json:"end_date"`
	Versions         []ContractVersionResponse `json:"versions,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
	Version          int                       `json:"version"`
}

// ContractListFilter defines filtering options for contract list queries
type ContractListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// ===================== Operations =====================

// CreateContract creates an active contract with its initial version
func (s *ContractService) CreateContract(ctx context.Context, tctx shared.TenantContext, req CreateContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "create")
	defer span.End()

	if !tctx.Valid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant is required")
	}

	startDate, err := valueobject.ParseCalendarDate(req.StartDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	endDate, err := valueobject.ParseCalendarDate(req.EndDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	totalValue, err := valueobject.NewMoney(req.TotalValue, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	contract, err := revenue.NewContract(
		tctx.TenantID,
		req.ContractNumber,
		req.Name,
		req.CustomerID,
		req.CustomerName,
		totalValue,
		startDate, endDate,
		tctx.Actor(),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	version, err := revenue.NewContractVersion(
		tctx.TenantID, contract.ID,
		1,
		startDate,
		revenue.InitialVersionDescription,
		contract.TotalValue,
	)
	if err != nil {
		return nil, err
	}
	if err := contract.AttachVersion(version); err != nil {
		return nil, err
	}
	if err := contract.Activate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.contractRepo.Save(txCtx, contract); err != nil {
			return err
		}
		return s.contractRepo.SaveVersion(txCtx, version)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, "contract_id", contract.ID.String())
	return toContractResponse(contract), nil
}

// GetContract gets a contract by ID
func (s *ContractService) GetContract(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, revenue.ErrContractNotFound
	}
	return toContractResponse(contract), nil
}

// ListContracts lists contracts with filtering
func (s *ContractService) ListContracts(ctx context.Context, tctx shared.TenantContext, filter ContractListFilter) ([]ContractResponse, int64, error) {
	domainFilter := revenue.ContractFilter{
		CustomerID: filter.CustomerID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := revenue.ContractStatus(filter.Status)
		domainFilter.Status = &status
	}

	contracts, err := s.contractRepo.FindAllForTenant(ctx, tctx.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contractRepo.CountForTenant(ctx, tctx.TenantID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = *toContractResponse(&contracts[i])
	}
	return responses, total, nil
}

// ModifyContract records a contract modification: the declared total value
// changes and a new version snapshot becomes current. Superseded versions are
// never touched again.
func (s *ContractService) ModifyContract(ctx context.Context, tctx shared.TenantContext, contractID uuid.UUID, req ModifyContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "modify")
	defer span.End()

	contract, err := s.contractRepo.FindByIDForTenant(ctx, tctx.TenantID, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, revenue.ErrContractNotFound
	}

	effectiveDate, err := valueobject.ParseCalendarDate(req.EffectiveDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	if effectiveDate.IsZero() {
		effectiveDate = valueobject.CalendarDateFromTime(time.Now())
	}

	currency := contract.Currency
	totalValue, err := valueobject.NewMoney(req.TotalValue, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	if err := contract.Modify(totalValue); err != nil {
		return nil, err
	}

	version, err := revenue.NewContractVersion(
		tctx.TenantID, contract.ID,
		contract.NextVersionNumber(),
		effectiveDate,
		req.Description,
		contract.TotalValue,
	)
	if err != nil {
		return nil, err
	}
	if err := contract.AttachVersion(version); err != nil {
		return nil, err
	}

	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.contractRepo.Save(txCtx, contract); err != nil {
			return err
		}
		return s.contractRepo.SaveVersion(txCtx, version)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toContractResponse(contract), nil
}

// TerminateContract ends a contract early
func (s *ContractService) TerminateContract(ctx context.Context, tctx shared.TenantContext, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByIDForTenant(ctx, tctx.TenantID, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, revenue.ErrContractNotFound
	}
	if err := contract.Terminate(); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// DeleteContract removes a contract together with its versions, obligations,
// schedules and ledger entries
func (s *ContractService) DeleteContract(ctx context.Context, tctx shared.TenantContext, contractID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "delete")
	defer span.End()

	contract, err := s.contractRepo.FindByIDForTenant(ctx, tctx.TenantID, contractID)
	if err != nil {
		return err
	}
	if contract == nil {
		return revenue.ErrContractNotFound
	}
	return s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.contractRepo.DeleteForTenant(txCtx, tctx.TenantID, contractID)
	})
}

// ===================== Mapping =====================

func toContractResponse(c *revenue.Contract) *ContractResponse {
	versions := make([]ContractVersionResponse, len(c.Versions))
	for i := range c.Versions {
		versions[i] = toVersionResponse(&c.Versions[i])
	}
	return &ContractResponse{
		ID:               c.ID,
		TenantID:         c.TenantID,
		ContractNumber:   c.ContractNumber,
		Name:             c.Name,
		CustomerID:       c.CustomerID,
		CustomerName:     c.CustomerName,
		TotalValue:       c.TotalValue,
		Currency:         string(c.Currency),
		Status:           c.Status.String(),
		CurrentVersionID: c.CurrentVersionID,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		Versions:         versions,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

func toVersionResponse(v *revenue.ContractVersion) ContractVersionResponse {
	return ContractVersionResponse{
		ID:            v.ID,
		ContractID:    v.ContractID,
		VersionNumber: v.VersionNumber,
		EffectiveDate: v.EffectiveDate,
		Description:   v.Description,
		TotalValue:    v.TotalValue,
		CreatedAt:     v.CreatedAt,
	}
}
