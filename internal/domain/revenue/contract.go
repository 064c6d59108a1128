package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// ContractStatus represents the lifecycle status of a revenue contract
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusModified   ContractStatus = "modified"
	ContractStatusTerminated ContractStatus = "terminated"
	ContractStatusExpired    ContractStatus = "expired"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusActive, ContractStatusModified,
		ContractStatusTerminated, ContractStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further modification is allowed
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusTerminated || s == ContractStatusExpired
}

// InitialVersionDescription is used when the engine bootstraps version 1
// on behalf of a contract that has none yet.
const InitialVersionDescription = "Initial contract version"

// Contract is the tenant-scoped aggregate root of the revenue-recognition
// model. It owns its versions; each version owns its performance obligations
// and line items. Billing schedules and ledger entries reference the contract
// but live in their own collections.
type Contract struct {
	shared.TenantAggregateRoot
	ContractNumber   string                   `json:"contract_number"`
	Name             string                   `json:"name"`
	CustomerID       uuid.UUID                `json:"customer_id"`
	CustomerName     string                   `json:"customer_name"`
	TotalValue       decimal.Decimal          `json:"total_value"`
	Currency         valueobject.Currency     `json:"currency"`
	Status           ContractStatus           `json:"status"`
	CurrentVersionID *uuid.UUID               `json:"current_version_id"`
	StartDate        valueobject.CalendarDate `json:"start_date"`
	EndDate          valueobject.CalendarDate `json:"end_date"`
	Versions         []ContractVersion        `json:"versions,omitempty"`
}

// NewContract creates a draft contract. The first version is created by the
// caller (service layer) right after, so that CurrentVersionID always points
// to an existing version once any obligation exists.
func NewContract(
	tenantID uuid.UUID,
	contractNumber string,
	name string,
	customerID uuid.UUID,
	customerName string,
	totalValue valueobject.Money,
	startDate, endDate valueobject.CalendarDate,
	createdBy *uuid.UUID,
) (*Contract, error) {
	if contractNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Contract number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer is required")
	}
	if totalValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Contract total value cannot be negative")
	}
	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Contract end date precedes start date")
	}

	root := shared.NewTenantAggregateRoot(tenantID)
	if createdBy != nil {
		root.SetCreatedBy(*createdBy)
	}
	c := &Contract{
		TenantAggregateRoot: root,
		ContractNumber:      contractNumber,
		Name:                name,
		CustomerID:          customerID,
		CustomerName:        customerName,
		TotalValue:          totalValue.Amount(),
		Currency:            totalValue.Currency(),
		Status:              ContractStatusDraft,
		StartDate:           startDate,
		EndDate:             endDate,
	}
	c.AddDomainEvent(NewContractCreatedEvent(c))
	return c, nil
}

// Activate moves the contract from draft to active
func (c *Contract) Activate() error {
	if c.Status != ContractStatusDraft {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusActive
	c.Touch()
	return nil
}

// CurrentVersion returns the version CurrentVersionID points to, or nil
func (c *Contract) CurrentVersion() *ContractVersion {
	if c.CurrentVersionID == nil {
		return nil
	}
	for i := range c.Versions {
		if c.Versions[i].ID == *c.CurrentVersionID {
			return &c.Versions[i]
		}
	}
	return nil
}

// NextVersionNumber returns the version number a new version should carry
func (c *Contract) NextVersionNumber() int {
	max := 0
	for i := range c.Versions {
		if c.Versions[i].VersionNumber > max {
			max = c.Versions[i].VersionNumber
		}
	}
	return max + 1
}

// AttachVersion adds a version to the contract and makes it current.
// The previously current version is considered superseded and is never
// mutated again.
func (c *Contract) AttachVersion(v *ContractVersion) error {
	if v.ContractID != c.ID {
		return shared.NewDomainError("INVALID_INPUT", "Version belongs to a different contract")
	}
	if v.VersionNumber != c.NextVersionNumber() {
		return shared.NewDomainError("INVALID_STATE", "Version numbers must be monotonic")
	}
	c.Versions = append(c.Versions, *v)
	id := v.ID
	c.CurrentVersionID = &id
	if v.VersionNumber > 1 && c.Status == ContractStatusActive {
		c.Status = ContractStatusModified
	}
	c.Touch()
	return nil
}

// Modify records a contract modification: declared terms change and a fresh
// version snapshot is attached by the service layer.
func (c *Contract) Modify(totalValue valueobject.Money) error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	if totalValue.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Contract total value cannot be negative")
	}
	c.TotalValue = totalValue.Amount()
	c.Currency = totalValue.Currency()
	c.Touch()
	c.AddDomainEvent(NewContractModifiedEvent(c))
	return nil
}

// Terminate ends the contract early
func (c *Contract) Terminate() error {
	if c.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusTerminated
	c.Touch()
	return nil
}

// TotalValueMoney returns the contract total as a Money value object
func (c *Contract) TotalValueMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(c.TotalValue, c.Currency)
	return m
}
