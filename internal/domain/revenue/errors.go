package revenue

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// AllocationExceededError is returned when creating an obligation would push
// the sum of allocated prices under a version past the contract's total
// value. MaxAllocatable reports the largest amount a caller could still
// allocate.
type AllocationExceededError struct {
	ContractTotal    decimal.Decimal
	AlreadyAllocated decimal.Decimal
	Requested        decimal.Decimal
	MaxAllocatable   decimal.Decimal
	Currency         valueobject.Currency
}

// NewAllocationExceededError builds the error from the conservation check inputs
func NewAllocationExceededError(contractTotal, alreadyAllocated, requested decimal.Decimal, currency valueobject.Currency) *AllocationExceededError {
	max := contractTotal.Sub(alreadyAllocated)
	if max.IsNegative() {
		max = decimal.Zero
	}
	return &AllocationExceededError{
		ContractTotal:    contractTotal,
		AlreadyAllocated: alreadyAllocated,
		Requested:        requested,
		MaxAllocatable:   max,
		Currency:         currency,
	}
}

// Error implements the error interface
func (e *AllocationExceededError) Error() string {
	return fmt.Sprintf("allocated price exceeds contract total: max allowed %s %s",
		e.MaxAllocatable.StringFixed(2), e.Currency)
}

// Code returns the domain error code for uniform presentation
func (e *AllocationExceededError) Code() string {
	return "ALLOCATION_EXCEEDED"
}

// InvalidDateError is returned when a required date is missing or does not
// parse to a valid calendar date.
type InvalidDateError struct {
	Reason string
}

// NewInvalidDateError builds an invalid-date validation error
func NewInvalidDateError(reason string) *InvalidDateError {
	return &InvalidDateError{Reason: reason}
}

// Error implements the error interface
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s", e.Reason)
}

// Code returns the domain error code for uniform presentation
func (e *InvalidDateError) Code() string {
	return "INVALID_DATE"
}

// Not-found errors for the engine's referenced entities
var (
	ErrContractNotFound   = shared.NewDomainError("CONTRACT_NOT_FOUND", "Contract not found")
	ErrVersionNotFound    = shared.NewDomainError("VERSION_NOT_FOUND", "Contract version not found")
	ErrObligationNotFound = shared.NewDomainError("OBLIGATION_NOT_FOUND", "Performance obligation not found")
	ErrEntryNotFound      = shared.NewDomainError("ENTRY_NOT_FOUND", "Ledger entry not found")
	ErrScheduleNotFound   = shared.NewDomainError("SCHEDULE_NOT_FOUND", "Billing schedule not found")
)
