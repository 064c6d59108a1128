package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
)

// ScheduleService generates and manages billing schedules. Over-time
// schedules are spread across the owning contract's term so the contract is
// fully billed regardless of how obligations partition it.
type ScheduleService struct {
	scheduleRepo revenue.BillingScheduleRepository
	contractRepo revenue.ContractRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo revenue.BillingScheduleRepository, contractRepo revenue.ContractRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, contractRepo: contractRepo}
}

// ===================== Request / Response DTOs =====================

// ScheduleParams carries the recognition-method-specific schedule inputs.
// Point-in-time obligations need DueDate; over-time obligations need
// StartDate, EndDate and Frequency. Date fields accept any supported date
// shape and are normalized before use.
type ScheduleParams struct {
	DueDate   interface{} `json:"due_date,omitempty"`
	StartDate interface{} `json:"start_date,omitempty"`
	EndDate   interface{} `json:"end_date,omitempty"`
	Frequency string      `json:"frequency,omitempty"`
}

// BillingScheduleResponse represents a billing schedule in API responses
type BillingScheduleResponse struct {
	ID            uuid.UUID                 `json:"id"`
	TenantID      uuid.UUID                 `json:"tenant_id"`
	ContractID    uuid.UUID                 `json:"contract_id"`
	ObligationID  *uuid.UUID                `json:"obligation_id,omitempty"`
	BillingDate   valueobject.CalendarDate  `json:"billing_date"`
	DueDate       valueobject.CalendarDate  `json:"due_date"`
	Amount        decimal.Decimal           `json:"amount"`
	Currency      string                    `json:"currency"`
	Frequency     string                    `json:"frequency"`
	Status        string                    `json:"status"`
	InvoiceNumber string                    `json:"invoice_number,omitempty"`
	PaidAmount    *decimal.Decimal          `json:"paid_amount,omitempty"`
	PaidDate      *valueobject.CalendarDate `json:"paid_date,omitempty"`
	Notes         string                    `json:"notes,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// ScheduleListFilter defines filtering options for schedule list queries
type ScheduleListFilter struct {
	ContractID   *uuid.UUID `form:"contract_id"`
	ObligationID *uuid.UUID `form:"obligation_id"`
	Status       string     `form:"status"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
}

// MarkPaidRequest carries payment details for a billed installment. A zero
// amount records full payment of the installment amount.
type MarkPaidRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidDate   interface{}     `json:"paid_date"`
}

// ===================== Generation =====================

// GenerateForObligation builds the installment rows for an obligation and
// persists them. The caller runs it inside the same transaction that created
// the obligation.
//
// Point-in-time: exactly one installment due on the given date, billed seven
// days earlier, for the full allocated price.
//
// Over-time: the allocated price is split evenly across the contract's term
// at the given frequency, rounded to the minor unit, with the rounding
// remainder absorbed by the final installment so the installments sum to the
// allocated price exactly.
func (s *ScheduleService) GenerateForObligation(
	ctx context.Context,
	contract *revenue.Contract,
	po *revenue.PerformanceObligation,
	params ScheduleParams,
) ([]*revenue.BillingSchedule, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "schedule", "generate")
	defer span.End()

	var schedules []*revenue.BillingSchedule
	var err error
	switch po.RecognitionMethod {
	case revenue.RecognitionPointInTime:
		schedules, err = s.generatePointInTime(contract, po, params)
	case revenue.RecognitionOverTime:
		schedules, err = s.generateOverTime(contract, po, params)
	default:
		err = shared.NewDomainError("INVALID_INPUT", "Unknown recognition method")
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.scheduleRepo.SaveAll(ctx, schedules); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "installments", fmt.Sprintf("%d", len(schedules)))
	return schedules, nil
}

func (s *ScheduleService) generatePointInTime(
	contract *revenue.Contract,
	po *revenue.PerformanceObligation,
	params ScheduleParams,
) ([]*revenue.BillingSchedule, error) {
	dueDate, err := valueobject.ParseCalendarDate(params.DueDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	if dueDate.IsZero() {
		return nil, revenue.NewInvalidDateError("due date is required for point-in-time recognition")
	}

	billingDate := dueDate.AddDays(-7)
	obligationID := po.ID
	schedule, err := revenue.NewBillingSchedule(
		contract.TenantID, contract.ID, &obligationID,
		billingDate, dueDate,
		po.AllocatedPrice,
		contract.Currency,
		revenue.FrequencyOneTime,
		fmt.Sprintf("Installment 1 of 1 due %s", dueDate),
	)
	if err != nil {
		return nil, err
	}
	return []*revenue.BillingSchedule{schedule}, nil
}

func (s *ScheduleService) generateOverTime(
	contract *revenue.Contract,
	po *revenue.PerformanceObligation,
	params ScheduleParams,
) ([]*revenue.BillingSchedule, error) {
	startDate, err := valueobject.ParseCalendarDate(params.StartDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	endDate, err := valueobject.ParseCalendarDate(params.EndDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, revenue.NewInvalidDateError("start and end dates are required for over-time recognition")
	}
	if params.Frequency == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Billing frequency is required for over-time recognition")
	}
	frequency := revenue.NormalizeFrequency(params.Frequency)

	// The billing horizon is the contract's term, not the obligation's own
	// window. A contract carries several obligations with different coverage
	// windows yet must be invoiced across its full duration.
	horizonStart, horizonEnd := contract.StartDate, contract.EndDate
	if horizonStart.IsZero() {
		horizonStart = startDate
	}
	if horizonEnd.IsZero() {
		horizonEnd = endDate
	}
	if horizonEnd.Before(horizonStart) {
		return nil, revenue.NewInvalidDateError("billing horizon end precedes start")
	}

	periodMonths := frequency.PeriodMonths()
	if periodMonths <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Frequency has no recurring period")
	}

	totalMonths := horizonStart.MonthsUntil(horizonEnd)
	if totalMonths < 1 {
		totalMonths = 1
	}
	periods := (totalMonths + periodMonths - 1) / periodMonths
	if periods < 1 {
		periods = 1
	}

	perPeriod := po.AllocatedPrice.Div(decimal.NewFromInt(int64(periods))).Round(2)

	// The obligation's own window length is recorded alongside the horizon
	// but never scales the installment amounts: the full allocated price is
	// spread across the contract term even for partial-coverage obligations.
	coverageMonths := po.CoverageMonths()

	obligationID := po.ID
	schedules := make([]*revenue.BillingSchedule, 0, periods)
	for i := 0; i < periods; i++ {
		amount := perPeriod
		if i == periods-1 {
			amount = po.AllocatedPrice.Sub(perPeriod.Mul(decimal.NewFromInt(int64(periods - 1))))
		}

		billingDate := horizonStart.AddMonths(i * periodMonths)
		dueDate := billingDate.AddDays(30)
		if billingDate.IsZero() || dueDate.IsZero() {
			return nil, revenue.NewInvalidDateError("computed installment date is not a valid calendar date")
		}

		notes := fmt.Sprintf("Installment %d of %d over contract horizon %s to %s (%d months)",
			i+1, periods, horizonStart, horizonEnd, totalMonths)
		if coverageMonths > 0 {
			notes += fmt.Sprintf("; obligation covers %d months", coverageMonths)
		}

		schedule, err := revenue.NewBillingSchedule(
			contract.TenantID, contract.ID, &obligationID,
			billingDate, dueDate,
			amount,
			contract.Currency,
			frequency,
			notes,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// ===================== Queries and transitions =====================

// GetSchedule gets a billing schedule by ID
func (s *ScheduleService) GetSchedule(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*BillingScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, revenue.ErrScheduleNotFound
	}
	return toScheduleResponse(schedule), nil
}

// ListSchedules lists billing schedules with filtering
func (s *ScheduleService) ListSchedules(ctx context.Context, tctx shared.TenantContext, filter ScheduleListFilter) ([]BillingScheduleResponse, error) {
	domainFilter := revenue.ScheduleFilter{
		ContractID:   filter.ContractID,
		ObligationID: filter.ObligationID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.Status != "" {
		domainFilter.Statuses = []revenue.ScheduleStatus{revenue.ScheduleStatus(filter.Status)}
	}

	schedules, err := s.scheduleRepo.FindAllForTenant(ctx, tctx.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]BillingScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *toScheduleResponse(&schedules[i])
	}
	return responses, nil
}

// MarkInvoiced transitions an installment from scheduled to invoiced
func (s *ScheduleService) MarkInvoiced(ctx context.Context, tctx shared.TenantContext, id uuid.UUID, invoiceNumber string) (*BillingScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, revenue.ErrScheduleNotFound
	}
	if err := schedule.MarkInvoiced(invoiceNumber); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

// MarkPaid transitions an invoiced installment to paid
func (s *ScheduleService) MarkPaid(ctx context.Context, tctx shared.TenantContext, id uuid.UUID, req MarkPaidRequest) (*BillingScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, revenue.ErrScheduleNotFound
	}
	paidDate, err := valueobject.ParseCalendarDate(req.PaidDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	if err := schedule.MarkPaid(req.PaidAmount, paidDate); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

// CancelSchedule voids an installment that has not been paid
func (s *ScheduleService) CancelSchedule(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*BillingScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, revenue.ErrScheduleNotFound
	}
	if err := schedule.Cancel(); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

func toScheduleResponse(b *revenue.BillingSchedule) *BillingScheduleResponse {
	return &BillingScheduleResponse{
		ID:            b.ID,
		TenantID:      b.TenantID,
		ContractID:    b.ContractID,
		ObligationID:  b.ObligationID,
		BillingDate:   b.BillingDate,
		DueDate:       b.DueDate,
		Amount:        b.Amount,
		Currency:      string(b.Currency),
		Frequency:     b.Frequency.String(),
		Status:        string(b.Status),
		InvoiceNumber: b.InvoiceNumber,
		PaidAmount:    b.PaidAmount,
		PaidDate:      b.PaidDate,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
