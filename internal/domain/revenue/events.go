package revenue

import (
	"github.com/revrec/backend/internal/domain/shared"
)

// Event types emitted by the revenue domain
const (
	EventTypeContractCreated          = "revenue.contract.created"
	EventTypeContractModified         = "revenue.contract.modified"
	EventTypeObligationCreated        = "revenue.obligation.created"
	EventTypeLedgerEntryPosted        = "revenue.ledger_entry.posted"
	EventTypeBalanceSnapshotGenerated = "revenue.balance_snapshot.generated"
)

// ContractCreatedEvent is emitted when a contract aggregate is created
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractNumber string `json:"contract_number"`
}

// NewContractCreatedEvent creates a ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCreated, "Contract", c.ID, c.TenantID),
		ContractNumber:  c.ContractNumber,
	}
}

// ContractModifiedEvent is emitted when contract terms change
type ContractModifiedEvent struct {
	shared.BaseDomainEvent
	TotalValue string `json:"total_value"`
}

// NewContractModifiedEvent creates a ContractModifiedEvent
func NewContractModifiedEvent(c *Contract) *ContractModifiedEvent {
	return &ContractModifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractModified, "Contract", c.ID, c.TenantID),
		TotalValue:      c.TotalValue.StringFixed(2),
	}
}

// ObligationCreatedEvent is emitted when an allocation passes the
// conservation check and the obligation is persisted
type ObligationCreatedEvent struct {
	shared.BaseDomainEvent
	AllocatedPrice    string `json:"allocated_price"`
	RecognitionMethod string `json:"recognition_method"`
}

// NewObligationCreatedEvent creates an ObligationCreatedEvent
func NewObligationCreatedEvent(po *PerformanceObligation) *ObligationCreatedEvent {
	return &ObligationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeObligationCreated, "PerformanceObligation", po.ID, po.TenantID),
		AllocatedPrice:    po.AllocatedPrice.StringFixed(2),
		RecognitionMethod: po.RecognitionMethod.String(),
	}
}

// LedgerEntryPostedEvent is emitted on the one-way posting transition
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryType EntryType `json:"entry_type"`
	Amount    string    `json:"amount"`
}

// NewLedgerEntryPostedEvent creates a LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(e *LedgerEntry) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryPosted, "LedgerEntry", e.ID, e.TenantID),
		EntryType:       e.EntryType,
		Amount:          e.Amount.StringFixed(2),
	}
}

// BalanceSnapshotGeneratedEvent is emitted when a consolidated balance row
// is generated
type BalanceSnapshotGeneratedEvent struct {
	shared.BaseDomainEvent
	PeriodType PeriodType `json:"period_type"`
	PeriodDate string     `json:"period_date"`
}

// NewBalanceSnapshotGeneratedEvent creates a BalanceSnapshotGeneratedEvent
func NewBalanceSnapshotGeneratedEvent(cb *ConsolidatedBalance) *BalanceSnapshotGeneratedEvent {
	return &BalanceSnapshotGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceSnapshotGenerated, "ConsolidatedBalance", cb.ID, cb.TenantID),
		PeriodType:      cb.PeriodType,
		PeriodDate:      cb.PeriodDate.String(),
	}
}
