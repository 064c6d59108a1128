package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// PeriodType is the reporting cadence of a consolidated balance snapshot
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodAnnual    PeriodType = "annual"
)

// IsValid checks if the period type is a member of the closed enum
func (p PeriodType) IsValid() bool {
	return p == PeriodMonthly || p == PeriodQuarterly || p == PeriodAnnual
}

// ConsolidatedBalance is an immutable, append-only snapshot of a tenant's
// revenue position for one period. Snapshots are generated by full
// recomputation over the tenant's ledger and billing collections and are
// never updated afterwards.
type ConsolidatedBalance struct {
	shared.TenantAggregateRoot
	PeriodDate               valueobject.CalendarDate `json:"period_date"`
	PeriodType               PeriodType               `json:"period_type"`
	Currency                 valueobject.Currency     `json:"currency"`
	TotalContractAssets      decimal.Decimal          `json:"total_contract_assets"`
	TotalContractLiabilities decimal.Decimal          `json:"total_contract_liabilities"`
	TotalReceivables         decimal.Decimal          `json:"total_receivables"`
	TotalDeferredRevenue     decimal.Decimal          `json:"total_deferred_revenue"`
	TotalRecognizedRevenue   decimal.Decimal          `json:"total_recognized_revenue"`
	TotalBilledAmount        decimal.Decimal          `json:"total_billed_amount"`
	TotalCashReceived        decimal.Decimal          `json:"total_cash_received"`
	ContractCount            int                      `json:"contract_count"`
}

// BalanceTotals carries the computed figures of one snapshot
type BalanceTotals struct {
	RecognizedRevenue decimal.Decimal
	DeferredRevenue   decimal.Decimal
	BilledAmount      decimal.Decimal
	CashReceived      decimal.Decimal
	ContractAssets    decimal.Decimal
	ContractLiability decimal.Decimal
	Receivables       decimal.Decimal
	ContractCount     int
}

// NewConsolidatedBalance creates a snapshot row from computed totals
func NewConsolidatedBalance(
	tenantID uuid.UUID,
	periodDate valueobject.CalendarDate,
	periodType PeriodType,
	currency valueobject.Currency,
	totals BalanceTotals,
) (*ConsolidatedBalance, error) {
	if periodDate.IsZero() {
		return nil, NewInvalidDateError("period date is required")
	}
	if !periodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown period type")
	}
	cb := &ConsolidatedBalance{
		TenantAggregateRoot:      shared.NewTenantAggregateRoot(tenantID),
		PeriodDate:               periodDate,
		PeriodType:               periodType,
		Currency:                 currency,
		TotalContractAssets:      totals.ContractAssets,
		TotalContractLiabilities: totals.ContractLiability,
		TotalReceivables:         totals.Receivables,
		TotalDeferredRevenue:     totals.DeferredRevenue,
		TotalRecognizedRevenue:   totals.RecognizedRevenue,
		TotalBilledAmount:        totals.BilledAmount,
		TotalCashReceived:        totals.CashReceived,
		ContractCount:            totals.ContractCount,
	}
	cb.AddDomainEvent(NewBalanceSnapshotGeneratedEvent(cb))
	return cb, nil
}
