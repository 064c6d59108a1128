package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// ContractVersion is a snapshot of contractual terms at a point in time.
// A version is immutable once superseded by a newer version; obligations and
// line items are always created against the current version.
type ContractVersion struct {
	shared.BaseEntity
	TenantID      uuid.UUID                `json:"tenant_id"`
	ContractID    uuid.UUID                `json:"contract_id"`
	VersionNumber int                      `json:"version_number"`
	EffectiveDate valueobject.CalendarDate `json:"effective_date"`
	Description   string                   `json:"description"`
	TotalValue    decimal.Decimal          `json:"total_value"`
	Obligations   []PerformanceObligation  `json:"obligations,omitempty"`
	LineItems     []ContractLineItem       `json:"line_items,omitempty"`
}

// NewContractVersion creates a version snapshot for a contract
func NewContractVersion(
	tenantID, contractID uuid.UUID,
	versionNumber int,
	effectiveDate valueobject.CalendarDate,
	description string,
	totalValue decimal.Decimal,
) (*ContractVersion, error) {
	if versionNumber < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Version number starts at 1")
	}
	if totalValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Version total value cannot be negative")
	}
	return &ContractVersion{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ContractID:    contractID,
		VersionNumber: versionNumber,
		EffectiveDate: effectiveDate,
		Description:   description,
		TotalValue:    totalValue,
	}, nil
}

// AllocatedTotal sums the allocated price of all obligations under the version
func (v *ContractVersion) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Obligations {
		total = total.Add(v.Obligations[i].AllocatedPrice)
	}
	return total
}

// ContractLineItem is a priced good or service on a contract version
type ContractLineItem struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `json:"tenant_id"`
	VersionID   uuid.UUID       `json:"version_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewContractLineItem creates a line item; the line total is derived
func NewContractLineItem(
	tenantID, versionID uuid.UUID,
	description string,
	quantity, unitPrice decimal.Decimal,
) (*ContractLineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Line item description is required")
	}
	if quantity.IsNegative() || quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Line item unit price cannot be negative")
	}
	return &ContractLineItem{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		VersionID:   versionID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice),
	}, nil
}
