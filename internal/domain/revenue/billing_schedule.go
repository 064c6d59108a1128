package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// BillingFrequency is the cadence of installments for over-time billing
type BillingFrequency string

const (
	FrequencyOneTime    BillingFrequency = "one_time"
	FrequencyMonthly    BillingFrequency = "monthly"
	FrequencyQuarterly  BillingFrequency = "quarterly"
	FrequencySemiAnnual BillingFrequency = "semi_annual"
	FrequencyAnnual     BillingFrequency = "annual"
)

// IsValid checks if the frequency is a member of the closed enum
func (f BillingFrequency) IsValid() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly,
		FrequencySemiAnnual, FrequencyAnnual:
		return true
	}
	return false
}

// String returns the string representation of BillingFrequency
func (f BillingFrequency) String() string {
	return string(f)
}

// PeriodMonths maps the frequency to its period length in months.
// One-time billing has no recurring period and maps to 0.
func (f BillingFrequency) PeriodMonths() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencySemiAnnual:
		return 6
	case FrequencyAnnual:
		return 12
	default:
		return 0
	}
}

// ScheduleStatus represents the invoicing state of one installment
type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusInvoiced  ScheduleStatus = "invoiced"
	ScheduleStatusPaid      ScheduleStatus = "paid"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// IsValid checks if the status is a member of the closed enum
func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInvoiced, ScheduleStatusPaid, ScheduleStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true once no further transition is allowed
func (s ScheduleStatus) IsTerminal() bool {
	return s == ScheduleStatusPaid || s == ScheduleStatusCancelled
}

// BillingSchedule is one invoice installment derived from a performance
// obligation. Rows are created exclusively by the schedule generator and
// afterwards change only through status transitions.
type BillingSchedule struct {
	shared.TenantAggregateRoot
	ContractID    uuid.UUID                 `json:"contract_id"`
	ObligationID  *uuid.UUID                `json:"obligation_id,omitempty"`
	BillingDate   valueobject.CalendarDate  `json:"billing_date"`
	DueDate       valueobject.CalendarDate  `json:"due_date"`
	Amount        decimal.Decimal           `json:"amount"`
	Currency      valueobject.Currency      `json:"currency"`
	Frequency     BillingFrequency          `json:"frequency"`
	Status        ScheduleStatus            `json:"status"`
	InvoiceNumber string                    `json:"invoice_number,omitempty"`
	PaidAmount    *decimal.Decimal          `json:"paid_amount,omitempty"`
	PaidDate      *valueobject.CalendarDate `json:"paid_date,omitempty"`
	Notes         string                    `json:"notes,omitempty"`
}

// NewBillingSchedule creates a scheduled installment
func NewBillingSchedule(
	tenantID, contractID uuid.UUID,
	obligationID *uuid.UUID,
	billingDate, dueDate valueobject.CalendarDate,
	amount decimal.Decimal,
	currency valueobject.Currency,
	frequency BillingFrequency,
	notes string,
) (*BillingSchedule, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment amount must be positive")
	}
	if billingDate.IsZero() || dueDate.IsZero() {
		return nil, NewInvalidDateError("billing and due dates are required")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown billing frequency")
	}
	return &BillingSchedule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractID:          contractID,
		ObligationID:        obligationID,
		BillingDate:         billingDate,
		DueDate:             dueDate,
		Amount:              amount,
		Currency:            currency,
		Frequency:           frequency,
		Status:              ScheduleStatusScheduled,
		Notes:               notes,
	}, nil
}

// MarkInvoiced transitions scheduled → invoiced
func (b *BillingSchedule) MarkInvoiced(invoiceNumber string) error {
	if b.Status != ScheduleStatusScheduled {
		return shared.ErrInvalidState
	}
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	}
	b.Status = ScheduleStatusInvoiced
	b.InvoiceNumber = invoiceNumber
	b.Touch()
	return nil
}

// MarkPaid transitions invoiced → paid. A zero paidAmount records full
// payment of the installment amount.
func (b *BillingSchedule) MarkPaid(paidAmount decimal.Decimal, paidDate valueobject.CalendarDate) error {
	if b.Status != ScheduleStatusInvoiced {
		return shared.ErrInvalidState
	}
	if paidDate.IsZero() {
		return NewInvalidDateError("paid date is required")
	}
	if paidAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	if paidAmount.IsZero() {
		paidAmount = b.Amount
	}
	b.Status = ScheduleStatusPaid
	b.PaidAmount = &paidAmount
	b.PaidDate = &paidDate
	b.Touch()
	return nil
}

// Cancel voids an installment that has not been paid
func (b *BillingSchedule) Cancel() error {
	if b.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	b.Status = ScheduleStatusCancelled
	b.Touch()
	return nil
}

// EffectivePaidAmount returns the amount received for a paid installment,
// falling back to the installment amount when no explicit paid amount exists
func (b *BillingSchedule) EffectivePaidAmount() decimal.Decimal {
	if b.PaidAmount != nil {
		return *b.PaidAmount
	}
	return b.Amount
}
