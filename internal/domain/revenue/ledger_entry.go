package revenue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// EntryType classifies a revenue ledger entry
type EntryType string

const (
	EntryRevenue           EntryType = "revenue"
	EntryDeferredRevenue   EntryType = "deferred_revenue"
	EntryContractAsset     EntryType = "contract_asset"
	EntryContractLiability EntryType = "contract_liability"
	EntryReceivable        EntryType = "receivable"
	EntryCash              EntryType = "cash"
	EntryFinancingIncome   EntryType = "financing_income"
	EntryCommissionExpense EntryType = "commission_expense"
)

// IsValid checks if the entry type is a member of the closed enum
func (t EntryType) IsValid() bool {
	_, ok := entryTypeNatures[t]
	return ok
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// AccountNature is the natural balance side of an account
type AccountNature string

const (
	NatureDebit  AccountNature = "debit"
	NatureCredit AccountNature = "credit"
)

// entryTypeNatures assigns every entry type its natural side. Assets and
// expenses are debit-natured; liabilities and revenue are credit-natured.
var entryTypeNatures = map[EntryType]AccountNature{
	EntryRevenue:           NatureCredit,
	EntryDeferredRevenue:   NatureCredit,
	EntryContractLiability: NatureCredit,
	EntryFinancingIncome:   NatureCredit,
	EntryReceivable:        NatureDebit,
	EntryContractAsset:     NatureDebit,
	EntryCash:              NatureDebit,
	EntryCommissionExpense: NatureDebit,
}

// Nature returns the natural balance side of the entry type
func (t EntryType) Nature() AccountNature {
	if nature, ok := entryTypeNatures[t]; ok {
		return nature
	}
	return NatureDebit
}

// Standard account labels of the five-account IFRS 15 model plus the
// auxiliary accounts used by financing and commission entries.
const (
	AccountCash              = "1000 - Cash"
	AccountReceivable        = "1200 - Accounts Receivable (AR)"
	AccountContractAsset     = "1300 - Contract Asset"
	AccountContractLiability = "2600 - Contract Liability"
	AccountDeferredRevenue   = "2700 - Deferred Revenue"
	AccountRevenue           = "4000 - Revenue"
	AccountFinancingIncome   = "4200 - Financing Income"
	AccountCommissionExpense = "6100 - Commission Expense"
)

// defaultAccounts supplies debit/credit labels when the caller gives none
var defaultAccounts = map[EntryType]struct{ debit, credit string }{
	EntryRevenue:           {AccountContractAsset, AccountRevenue},
	EntryDeferredRevenue:   {AccountReceivable, AccountDeferredRevenue},
	EntryContractAsset:     {AccountContractAsset, AccountRevenue},
	EntryContractLiability: {AccountReceivable, AccountContractLiability},
	EntryReceivable:        {AccountReceivable, AccountContractAsset},
	EntryCash:              {AccountCash, AccountReceivable},
	EntryFinancingIncome:   {AccountContractAsset, AccountFinancingIncome},
	EntryCommissionExpense: {AccountCommissionExpense, AccountCash},
}

// LedgerEntry is a double-entry-style revenue ledger record. Posting is a
// one-way transition: once IsPosted is set the record is frozen for business
// logic and only the audit trail may reference it further.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	ContractID       uuid.UUID                `json:"contract_id"`
	ObligationID     *uuid.UUID               `json:"obligation_id,omitempty"`
	EntryType        EntryType                `json:"entry_type"`
	DebitAccount     string                   `json:"debit_account"`
	CreditAccount    string                   `json:"credit_account"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         valueobject.Currency     `json:"currency"`
	FXRate           *decimal.Decimal         `json:"fx_rate,omitempty"`
	FunctionalAmount *decimal.Decimal         `json:"functional_amount,omitempty"`
	EntryDate        valueobject.CalendarDate `json:"entry_date"`
	PeriodStart      valueobject.CalendarDate `json:"period_start"`
	PeriodEnd        valueobject.CalendarDate `json:"period_end"`
	Description      string                   `json:"description,omitempty"`
	IsPosted         bool                     `json:"is_posted"`
	PostedAt         *time.Time               `json:"posted_at,omitempty"`
	PostedBy         *uuid.UUID               `json:"posted_by,omitempty"`
}

// NewLedgerEntry creates an unposted ledger entry. Empty account labels are
// filled from the entry type's default debit/credit pair.
func NewLedgerEntry(
	tenantID, contractID uuid.UUID,
	obligationID *uuid.UUID,
	entryType EntryType,
	debitAccount, creditAccount string,
	amount decimal.Decimal,
	currency valueobject.Currency,
	entryDate, periodStart, periodEnd valueobject.CalendarDate,
	description string,
) (*LedgerEntry, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Ledger entry amount must be positive")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown ledger entry type")
	}
	if entryDate.IsZero() {
		return nil, NewInvalidDateError("entry date is required")
	}
	if defaults, ok := defaultAccounts[entryType]; ok {
		if debitAccount == "" {
			debitAccount = defaults.debit
		}
		if creditAccount == "" {
			creditAccount = defaults.credit
		}
	}
	return &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractID:          contractID,
		ObligationID:        obligationID,
		EntryType:           entryType,
		DebitAccount:        debitAccount,
		CreditAccount:       creditAccount,
		Amount:              amount,
		Currency:            currency,
		EntryDate:           entryDate,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		Description:         description,
	}, nil
}

// WithFX records an exchange rate and the functional-currency amount
func (e *LedgerEntry) WithFX(rate decimal.Decimal) error {
	if e.IsPosted {
		return shared.ErrInvalidState
	}
	if rate.IsNegative() || rate.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "FX rate must be positive")
	}
	functional := e.Amount.Mul(rate).Round(2)
	e.FXRate = &rate
	e.FunctionalAmount = &functional
	return nil
}

// MarkPosted performs the one-way posting transition. Posting an already
// posted entry is a no-op: the existing posted state stands and false is
// returned so callers can skip the write.
func (e *LedgerEntry) MarkPosted(at time.Time, by *uuid.UUID) bool {
	if e.IsPosted {
		return false
	}
	e.IsPosted = true
	e.PostedAt = &at
	e.PostedBy = by
	e.Touch()
	e.AddDomainEvent(NewLedgerEntryPostedEvent(e))
	return true
}
