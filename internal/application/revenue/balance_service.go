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

// BalanceService generates consolidated balance snapshots. A snapshot is a
// full recomputation over the tenant's entire ledger and billing collections;
// it never reads a prior snapshot, so repeated generation over unchanged data
// yields identical totals.
type BalanceService struct {
	contractRepo revenue.ContractRepository
	scheduleRepo revenue.BillingScheduleRepository
	ledgerRepo   revenue.LedgerEntryRepository
	balanceRepo  revenue.ConsolidatedBalanceRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	contractRepo revenue.ContractRepository,
	scheduleRepo revenue.BillingScheduleRepository,
	ledgerRepo revenue.LedgerEntryRepository,
	balanceRepo revenue.ConsolidatedBalanceRepository,
) *BalanceService {
	return &BalanceService{
		contractRepo: contractRepo,
		scheduleRepo: scheduleRepo,
		ledgerRepo:   ledgerRepo,
		balanceRepo:  balanceRepo,
	}
}

// ===================== Request / Response DTOs =====================

// GenerateSnapshotRequest carries the inputs for snapshot generation.
// PeriodType accepts any spelling the normalizer recognizes.
type GenerateSnapshotRequest struct {
	PeriodDate interface{} `json:"period_date"`
	PeriodType string      `json:"period_type"`
	Currency   string      `json:"currency,omitempty"`
}

// BalanceResponse represents a consolidated balance snapshot in API responses
type BalanceResponse struct {
	ID                       uuid.UUID                `json:"id"`
	TenantID                 uuid.UUID                `json:"tenant_id"`
	PeriodDate               valueobject.CalendarDate `json:"period_date"`
	PeriodType               string                   `json:"period_type"`
	Currency                 string                   `json:"currency"`
	TotalContractAssets      decimal.Decimal          `json:"total_contract_assets"`
	TotalContractLiabilities decimal.Decimal          `json:"total_contract_liabilities"`
	TotalReceivables         decimal.Decimal          `json:"total_receivables"`
	TotalDeferredRevenue     decimal.Decimal          `json:"total_deferred_revenue"`
	TotalRecognizedRevenue   decimal.Decimal          `json:"total_recognized_revenue"`
	TotalBilledAmount        decimal.Decimal          `json:"total_billed_amount"`
	TotalCashReceived        decimal.Decimal          `json:"total_cash_received"`
	ContractCount            int                      `json:"contract_count"`
	CreatedAt                time.Time                `json:"created_at"`
}

// ===================== Operations =====================

// GenerateSnapshot recomputes the tenant's revenue position and persists it
// as an immutable snapshot row:
//
//	recognized  = sum of posted revenue entries
//	deferred    = sum of deferred-revenue entries, posted or not
//	billed      = sum of invoiced and paid installments
//	cash        = sum of paid amounts, falling back to installment amounts
//	assets      = max(0, recognized - billed)
//	liabilities = max(0, billed - recognized)
//	receivables = billed - cash
func (s *BalanceService) GenerateSnapshot(ctx context.Context, tctx shared.TenantContext, req GenerateSnapshotRequest) (*BalanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "generate_snapshot")
	defer span.End()

	if !tctx.Valid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant is required")
	}

	periodDate, err := valueobject.ParseCalendarDate(req.PeriodDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	if periodDate.IsZero() {
		return nil, revenue.NewInvalidDateError("period date is required")
	}
	periodType := revenue.NormalizePeriodType(req.PeriodType)

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	contractCount, err := s.contractRepo.CountForTenant(ctx, tctx.TenantID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.FindAllForTenant(ctx, tctx.TenantID, revenue.ScheduleFilter{})
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tctx.TenantID, revenue.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	totals := computeTotals(entries, schedules)
	totals.ContractCount = int(contractCount)

	balance, err := revenue.NewConsolidatedBalance(tctx.TenantID, periodDate, periodType, currency, totals)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if actor := tctx.Actor(); actor != nil {
		balance.SetCreatedBy(*actor)
	}

	if err := s.balanceRepo.Save(ctx, balance); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toBalanceResponse(balance), nil
}

// computeTotals derives the snapshot figures from the tenant's full ledger
// and billing data sets
func computeTotals(entries []revenue.LedgerEntry, schedules []revenue.BillingSchedule) revenue.BalanceTotals {
	recognized := decimal.Zero
	deferred := decimal.Zero
	for i := range entries {
		entry := &entries[i]
		switch entry.EntryType {
		case revenue.EntryRevenue:
			if entry.IsPosted {
				recognized = recognized.Add(entry.Amount)
			}
		case revenue.EntryDeferredRevenue:
			deferred = deferred.Add(entry.Amount)
		}
	}

	billed := decimal.Zero
	cash := decimal.Zero
	for i := range schedules {
		schedule := &schedules[i]
		switch schedule.Status {
		case revenue.ScheduleStatusInvoiced:
			billed = billed.Add(schedule.Amount)
		case revenue.ScheduleStatusPaid:
			billed = billed.Add(schedule.Amount)
			cash = cash.Add(schedule.EffectivePaidAmount())
		}
	}

	assets := decimal.Max(decimal.Zero, recognized.Sub(billed))
	liabilities := decimal.Max(decimal.Zero, billed.Sub(recognized))

	return revenue.BalanceTotals{
		RecognizedRevenue: recognized,
		DeferredRevenue:   deferred,
		BilledAmount:      billed,
		CashReceived:      cash,
		ContractAssets:    assets,
		ContractLiability: liabilities,
		Receivables:       billed.Sub(cash),
	}
}

// GetSnapshot gets a snapshot by ID
func (s *BalanceService) GetSnapshot(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*BalanceResponse, error) {
	balance, err := s.balanceRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, shared.ErrNotFound
	}
	return toBalanceResponse(balance), nil
}

// ListSnapshots lists the tenant's snapshots, newest first
func (s *BalanceService) ListSnapshots(ctx context.Context, tctx shared.TenantContext, page, pageSize int) ([]BalanceResponse, error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}
	balances, err := s.balanceRepo.FindAllForTenant(ctx, tctx.TenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]BalanceResponse, len(balances))
	for i := range balances {
		responses[i] = *toBalanceResponse(&balances[i])
	}
	return responses, nil
}

func toBalanceResponse(b *revenue.ConsolidatedBalance) *BalanceResponse {
	return &BalanceResponse{
		ID:                       b.ID,
		TenantID:                 b.TenantID,
		PeriodDate:               b.PeriodDate,
		PeriodType:               string(b.PeriodType),
		Currency:                 string(b.Currency),
		TotalContractAssets:      b.TotalContractAssets,
		TotalContractLiabilities: b.TotalContractLiabilities,
		TotalReceivables:         b.TotalReceivables,
		TotalDeferredRevenue:     b.TotalDeferredRevenue,
		TotalRecognizedRevenue:   b.TotalRecognizedRevenue,
		TotalBilledAmount:        b.TotalBilledAmount,
		TotalCashReceived:        b.TotalCashReceived,
		ContractCount:            b.ContractCount,
		CreatedAt:                b.CreatedAt,
	}
}
