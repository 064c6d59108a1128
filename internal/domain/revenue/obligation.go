package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// RecognitionMethod determines how revenue for an obligation is recognized
type RecognitionMethod string

const (
	RecognitionOverTime    RecognitionMethod = "over_time"
	RecognitionPointInTime RecognitionMethod = "point_in_time"
)

// IsValid checks if the recognition method is a member of the closed enum
func (m RecognitionMethod) IsValid() bool {
	return m == RecognitionOverTime || m == RecognitionPointInTime
}

// String returns the string representation of RecognitionMethod
func (m RecognitionMethod) String() string {
	return string(m)
}

// MeasurementMethod measures progress for over-time recognition
type MeasurementMethod string

const (
	MeasurementInput  MeasurementMethod = "input"
	MeasurementOutput MeasurementMethod = "output"
)

// IsValid checks if the measurement method is a member of the closed enum
func (m MeasurementMethod) IsValid() bool {
	return m == MeasurementInput || m == MeasurementOutput
}

// PerformanceObligation is a distinct promise within a contract version to
// transfer a good or service, carrying a slice of the contract's transaction
// price. The sum of allocated prices under one version must never exceed the
// contract's total value; the allocator enforces that before construction.
type PerformanceObligation struct {
	shared.BaseEntity
	TenantID          uuid.UUID                `json:"tenant_id"`
	ContractID        uuid.UUID                `json:"contract_id"`
	VersionID         uuid.UUID                `json:"version_id"`
	Description       string                   `json:"description"`
	AllocatedPrice    decimal.Decimal          `json:"allocated_price"`
	RecognitionMethod RecognitionMethod        `json:"recognition_method"`
	MeasurementMethod MeasurementMethod        `json:"measurement_method,omitempty"`
	PercentComplete   decimal.Decimal          `json:"percent_complete"`
	RecognizedAmount  decimal.Decimal          `json:"recognized_amount"`
	DeferredAmount    decimal.Decimal          `json:"deferred_amount"`
	Satisfied         bool                     `json:"satisfied"`
	StartDate         valueobject.CalendarDate `json:"start_date,omitempty"`
	EndDate           valueobject.CalendarDate `json:"end_date,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// NewPerformanceObligation creates an obligation with derived amounts.
// AllocatedPrice must be positive; PercentComplete must lie in [0, 100].
func NewPerformanceObligation(
	tenantID, contractID, versionID uuid.UUID,
	description string,
	allocatedPrice decimal.Decimal,
	recognitionMethod RecognitionMethod,
	measurementMethod MeasurementMethod,
	percentComplete decimal.Decimal,
	startDate, endDate valueobject.CalendarDate,
) (*PerformanceObligation, error) {
	if allocatedPrice.IsNegative() || allocatedPrice.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocated price must be positive")
	}
	if !recognitionMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown recognition method")
	}
	if percentComplete.IsNegative() || percentComplete.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percent complete must be between 0 and 100")
	}
	if measurementMethod != "" && !measurementMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown measurement method")
	}
	// Measurement only carries meaning for over-time recognition.
	if recognitionMethod == RecognitionPointInTime {
		measurementMethod = ""
	}

	po := &PerformanceObligation{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		ContractID:        contractID,
		VersionID:         versionID,
		Description:       description,
		AllocatedPrice:    allocatedPrice,
		RecognitionMethod: recognitionMethod,
		MeasurementMethod: measurementMethod,
		PercentComplete:   percentComplete,
		StartDate:         startDate,
		EndDate:           endDate,
	}
	po.recomputeDerived()
	return po, nil
}

// UpdateProgress moves the percent-complete and recomputes derived amounts.
// Reaching 100 marks the obligation satisfied.
func (po *PerformanceObligation) UpdateProgress(percentComplete decimal.Decimal) error {
	if percentComplete.IsNegative() || percentComplete.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_INPUT", "Percent complete must be between 0 and 100")
	}
	if percentComplete.LessThan(po.PercentComplete) {
		return shared.NewDomainError("INVALID_STATE", "Percent complete cannot decrease")
	}
	po.PercentComplete = percentComplete
	po.recomputeDerived()
	po.Touch()
	return nil
}

// recomputeDerived keeps recognized + deferred == allocated at all times
func (po *PerformanceObligation) recomputeDerived() {
	po.RecognizedAmount = po.AllocatedPrice.Mul(po.PercentComplete).Div(hundred).Round(2)
	po.DeferredAmount = po.AllocatedPrice.Sub(po.RecognizedAmount)
	po.Satisfied = po.PercentComplete.Equal(hundred)
}

// CoverageMonths returns the obligation's own window length in whole months,
// or 0 when either bound is absent. Schedule generation records this but
// spreads amounts across the contract horizon regardless.
func (po *PerformanceObligation) CoverageMonths() int {
	if po.StartDate.IsZero() || po.EndDate.IsZero() {
		return 0
	}
	months := po.StartDate.MonthsUntil(po.EndDate)
	if months < 0 {
		return 0
	}
	return months
}
