package revenue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
)

// ObligationService allocates slices of a contract's transaction price to
// performance obligations. The allocation-sum check and the writes it guards
// are serialized per contract version, so two concurrent allocations against
// the same version can never both pass the check and together overshoot the
// contract total.
type ObligationService struct {
	contractRepo revenue.ContractRepository
	scheduleSvc  *ScheduleService
	uow          revenue.UnitOfWork
	locks        versionLocks
}

// NewObligationService creates a new ObligationService
func NewObligationService(
	contractRepo revenue.ContractRepository,
	scheduleSvc *ScheduleService,
	uow revenue.UnitOfWork,
) *ObligationService {
	return &ObligationService{
		contractRepo: contractRepo,
		scheduleSvc:  scheduleSvc,
		uow:          uow,
	}
}

// versionLocks hands out one mutex per contract-version ID
type versionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (v *versionLocks) lock(id uuid.UUID) *sync.Mutex {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locks == nil {
		v.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	if _, ok := v.locks[id]; !ok {
		v.locks[id] = &sync.Mutex{}
	}
	return v.locks[id]
}

// ===================== Request / Response DTOs =====================

// CreateObligationRequest carries the inputs for creating a performance
// obligation, including the recognition-method-specific schedule parameters
type CreateObligationRequest struct {
	Description       string          `json:"description"`
	AllocatedPrice    decimal.Decimal `json:"allocated_price"`
	RecognitionMethod string          `json:"recognition_method" binding:"required"`
	MeasurementMethod string          `json:"measurement_method,omitempty"`
	PercentComplete   decimal.Decimal `json:"percent_complete"`
	StartDate         interface{}     `json:"start_date,omitempty"`
	EndDate           interface{}     `json:"end_date,omitempty"`
	Schedule          ScheduleParams  `json:"schedule"`
}

// ObligationResponse represents a performance obligation in API responses
type ObligationResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TenantID          uuid.UUID                 `json:"tenant_id"`
	ContractID        uuid.UUID                 `json:"contract_id"`
	VersionID         uuid.UUID                 `json:"version_id"`
	Description       string                    `json:"description"`
	AllocatedPrice    decimal.Decimal           `json:"allocated_price"`
	RecognitionMethod string                    `json:"recognition_method"`
	MeasurementMethod string                    `json:"measurement_method,omitempty"`
	PercentComplete   decimal.Decimal           `json:"percent_complete"`
	RecognizedAmount  decimal.Decimal           `json:"recognized_amount"`
	DeferredAmount    decimal.Decimal           `json:"deferred_amount"`
	Satisfied         bool                      `json:"satisfied"`
	StartDate         valueobject.CalendarDate  `json:"start_date,omitempty"`
	EndDate           valueobject.CalendarDate  `json:"end_date,omitempty"`
	Schedules         []BillingScheduleResponse `json:"schedules,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// ===================== Operations =====================

// CreateObligation allocates a slice of the contract total to a new
// obligation and generates its billing schedules. When the contract has no
// version yet, version 1 is bootstrapped with the contract's start date.
// The obligation, the bootstrapped version and the schedules commit in one
// transaction or not at all.
func (s *ObligationService) CreateObligation(
	ctx context.Context,
	tctx shared.TenantContext,
	contractID uuid.UUID,
	req CreateObligationRequest,
) (*ObligationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "obligation", "create")
	defer span.End()

	if !tctx.Valid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant is required")
	}

	contract, err := s.contractRepo.FindByIDForTenant(ctx, tctx.TenantID, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, revenue.ErrContractNotFound
	}

	startDate, err := valueobject.ParseCalendarDate(req.StartDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	endDate, err := valueobject.ParseCalendarDate(req.EndDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}

	version, bootstrapped, err := s.resolveVersion(ctx, contract)
	if err != nil {
		return nil, err
	}

	// Serialize the conservation check and its guarded writes per version.
	lock := s.locks.lock(version.ID)
	lock.Lock()
	defer lock.Unlock()

	allocated, err := s.contractRepo.SumAllocatedByVersion(ctx, tctx.TenantID, version.ID)
	if err != nil {
		return nil, err
	}
	if allocated.Add(req.AllocatedPrice).GreaterThan(contract.TotalValue) {
		allocErr := revenue.NewAllocationExceededError(
			contract.TotalValue, allocated, req.AllocatedPrice, contract.Currency)
		telemetry.RecordError(span, allocErr)
		return nil, allocErr
	}

	po, err := revenue.NewPerformanceObligation(
		tctx.TenantID, contract.ID, version.ID,
		req.Description,
		req.AllocatedPrice,
		revenue.RecognitionMethod(req.RecognitionMethod),
		revenue.MeasurementMethod(req.MeasurementMethod),
		req.PercentComplete,
		startDate, endDate,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var schedules []*revenue.BillingSchedule
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		if bootstrapped {
			if err := s.contractRepo.SaveVersion(txCtx, version); err != nil {
				return err
			}
			if err := s.contractRepo.Save(txCtx, contract); err != nil {
				return err
			}
		}
		if err := s.contractRepo.SaveObligation(txCtx, po); err != nil {
			return err
		}
		schedules, err = s.scheduleSvc.GenerateForObligation(txCtx, contract, po, req.Schedule)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		"contract_id", contract.ID.String(),
		"obligation_id", po.ID.String(),
	)
	resp := toObligationResponse(po)
	resp.Schedules = make([]BillingScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		resp.Schedules[i] = *toScheduleResponse(schedule)
	}
	return resp, nil
}

// resolveVersion returns the contract's current version, creating version 1
// in memory when none exists yet. The caller persists a bootstrapped version
// inside its transaction.
func (s *ObligationService) resolveVersion(ctx context.Context, contract *revenue.Contract) (*revenue.ContractVersion, bool, error) {
	if contract.CurrentVersionID != nil {
		if v := contract.CurrentVersion(); v != nil {
			return v, false, nil
		}
		version, err := s.contractRepo.FindVersionForTenant(ctx, contract.TenantID, *contract.CurrentVersionID)
		if err != nil {
			return nil, false, err
		}
		if version == nil {
			return nil, false, revenue.ErrVersionNotFound
		}
		return version, false, nil
	}

	version, err := revenue.NewContractVersion(
		contract.TenantID, contract.ID,
		1,
		contract.StartDate,
		revenue.InitialVersionDescription,
		contract.TotalValue,
	)
	if err != nil {
		return nil, false, err
	}
	if err := contract.AttachVersion(version); err != nil {
		return nil, false, err
	}
	return version, true, nil
}

// GetObligation gets a performance obligation by ID
func (s *ObligationService) GetObligation(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*ObligationResponse, error) {
	po, err := s.contractRepo.FindObligationForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, revenue.ErrObligationNotFound
	}
	return toObligationResponse(po), nil
}

// ListObligations lists the obligations of a contract version
func (s *ObligationService) ListObligations(ctx context.Context, tctx shared.TenantContext, versionID uuid.UUID) ([]ObligationResponse, error) {
	obligations, err := s.contractRepo.ListObligationsByVersion(ctx, tctx.TenantID, versionID)
	if err != nil {
		return nil, err
	}
	responses := make([]ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = *toObligationResponse(&obligations[i])
	}
	return responses, nil
}

// UpdateProgress moves an obligation's percent-complete forward and
// recomputes its recognized and deferred amounts
func (s *ObligationService) UpdateProgress(ctx context.Context, tctx shared.TenantContext, id uuid.UUID, percentComplete decimal.Decimal) (*ObligationResponse, error) {
	po, err := s.contractRepo.FindObligationForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, revenue.ErrObligationNotFound
	}
	if err := po.UpdateProgress(percentComplete); err != nil {
		return nil, err
	}
	if err := s.contractRepo.SaveObligation(ctx, po); err != nil {
		return nil, err
	}
	return toObligationResponse(po), nil
}

func toObligationResponse(po *revenue.PerformanceObligation) *ObligationResponse {
	return &ObligationResponse{
		ID:                po.ID,
		TenantID:          po.TenantID,
		ContractID:        po.ContractID,
		VersionID:         po.VersionID,
		Description:       po.Description,
		AllocatedPrice:    po.AllocatedPrice,
		RecognitionMethod: po.RecognitionMethod.String(),
		MeasurementMethod: string(po.MeasurementMethod),
		PercentComplete:   po.PercentComplete,
		RecognizedAmount:  po.RecognizedAmount,
		DeferredAmount:    po.DeferredAmount,
		Satisfied:         po.Satisfied,
		StartDate:         po.StartDate,
		EndDate:           po.EndDate,
		CreatedAt:         po.CreatedAt,
		UpdatedAt:         po.UpdatedAt,
	}
}
