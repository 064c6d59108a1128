package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
)

// ContractFilter defines filtering options for contract queries
type ContractFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *ContractStatus
}

// ScheduleFilter defines filtering options for billing schedule queries
type ScheduleFilter struct {
	shared.Filter
	ContractID   *uuid.UUID
	ObligationID *uuid.UUID
	Statuses     []ScheduleStatus
}

// LedgerFilter defines filtering options for ledger entry queries
type LedgerFilter struct {
	shared.Filter
	ContractID *uuid.UUID
	EntryType  *EntryType
	Posted     *bool
}

// ContractRepository persists contracts with their owned versions,
// obligations and line items. Deleting a contract cascades to its versions,
// schedules and ledger entries.
type ContractRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contract, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ContractFilter) ([]Contract, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, contract *Contract) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	SaveVersion(ctx context.Context, version *ContractVersion) error
	FindVersionForTenant(ctx context.Context, tenantID, versionID uuid.UUID) (*ContractVersion, error)

	SaveObligation(ctx context.Context, obligation *PerformanceObligation) error
	FindObligationForTenant(ctx context.Context, tenantID, obligationID uuid.UUID) (*PerformanceObligation, error)
	ListObligationsByVersion(ctx context.Context, tenantID, versionID uuid.UUID) ([]PerformanceObligation, error)
	SumAllocatedByVersion(ctx context.Context, tenantID, versionID uuid.UUID) (decimal.Decimal, error)
}

// BillingScheduleRepository persists invoice installments
type BillingScheduleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BillingSchedule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ScheduleFilter) ([]BillingSchedule, error)
	FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]BillingSchedule, error)
	Save(ctx context.Context, schedule *BillingSchedule) error
	SaveAll(ctx context.Context, schedules []*BillingSchedule) error
}

// LedgerEntryRepository persists revenue ledger entries. MarkPosted performs
// the posting transition as a conditional write: it succeeds only when the
// entry is still unposted and reports whether this call won the transition,
// so repeated or racing invocations post an entry exactly once.
type LedgerEntryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter LedgerFilter) ([]LedgerEntry, error)
	ListUnposted(ctx context.Context, tenantID uuid.UUID) ([]LedgerEntry, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	MarkPosted(ctx context.Context, tenantID, id uuid.UUID, at time.Time, by *uuid.UUID) (bool, error)
}

// ConsolidatedBalanceRepository persists append-only balance snapshots
type ConsolidatedBalanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ConsolidatedBalance, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ConsolidatedBalance, error)
	Save(ctx context.Context, balance *ConsolidatedBalance) error
}

// UnitOfWork runs a function with all repository writes inside one storage
// transaction. Multi-step workflows (version bootstrap, obligation creation,
// schedule generation) either commit together or roll back together.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
