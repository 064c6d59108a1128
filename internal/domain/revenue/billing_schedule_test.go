package revenue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

func newTestSchedule(t *testing.T) *BillingSchedule {
	t.Helper()
	poID := uuid.New()
	s, err := NewBillingSchedule(
		uuid.New(), uuid.New(), &poID,
		valueobject.NewCalendarDate(2025, time.March, 24),
		valueobject.NewCalendarDate(2025, time.March, 31),
		decimal.NewFromInt(1000), valueobject.USD, FrequencyMonthly, "")
	require.NoError(t, err)
	return s
}

func TestBillingFrequency_PeriodMonths(t *testing.T) {
	assert.Equal(t, 1, FrequencyMonthly.PeriodMonths())
	assert.Equal(t, 3, FrequencyQuarterly.PeriodMonths())
	assert.Equal(t, 6, FrequencySemiAnnual.PeriodMonths())
	assert.Equal(t, 12, FrequencyAnnual.PeriodMonths())
	assert.Equal(t, 0, FrequencyOneTime.PeriodMonths())
}

func TestNewBillingSchedule(t *testing.T) {
	t.Run("starts scheduled", func(t *testing.T) {
		s := newTestSchedule(t)
		assert.Equal(t, ScheduleStatusScheduled, s.Status)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewBillingSchedule(uuid.New(), uuid.New(), nil,
			valueobject.NewCalendarDate(2025, time.March, 24),
			valueobject.NewCalendarDate(2025, time.March, 31),
			decimal.Zero, valueobject.USD, FrequencyMonthly, "")
		assert.Error(t, err)
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		_, err := NewBillingSchedule(uuid.New(), uuid.New(), nil,
			valueobject.CalendarDate{}, valueobject.CalendarDate{},
			decimal.NewFromInt(100), valueobject.USD, FrequencyMonthly, "")
		require.Error(t, err)
		var dateErr *InvalidDateError
		assert.ErrorAs(t, err, &dateErr)
	})
}

func TestBillingSchedule_Transitions(t *testing.T) {
	t.Run("scheduled to invoiced to paid", func(t *testing.T) {
		s := newTestSchedule(t)
		require.NoError(t, s.MarkInvoiced("INV-001"))
		assert.Equal(t, ScheduleStatusInvoiced, s.Status)

		paidDate := valueobject.NewCalendarDate(2025, time.April, 2)
		require.NoError(t, s.MarkPaid(decimal.NewFromInt(950), paidDate))
		assert.Equal(t, ScheduleStatusPaid, s.Status)
		assert.True(t, s.EffectivePaidAmount().Equal(decimal.NewFromInt(950)))
	})

	t.Run("zero paid amount defaults to installment amount", func(t *testing.T) {
		s := newTestSchedule(t)
		require.NoError(t, s.MarkInvoiced("INV-002"))
		require.NoError(t, s.MarkPaid(decimal.Zero, valueobject.NewCalendarDate(2025, time.April, 2)))
		assert.True(t, s.EffectivePaidAmount().Equal(s.Amount))
	})

	t.Run("cannot pay a scheduled installment", func(t *testing.T) {
		s := newTestSchedule(t)
		assert.Error(t, s.MarkPaid(decimal.NewFromInt(1), valueobject.NewCalendarDate(2025, time.April, 2)))
	})

	t.Run("cannot invoice twice", func(t *testing.T) {
		s := newTestSchedule(t)
		require.NoError(t, s.MarkInvoiced("INV-003"))
		assert.Error(t, s.MarkInvoiced("INV-004"))
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		s := newTestSchedule(t)
		require.NoError(t, s.Cancel())
		assert.Error(t, s.Cancel())
		assert.Error(t, s.MarkInvoiced("INV-005"))
	})

	t.Run("paid cannot be cancelled", func(t *testing.T) {
		s := newTestSchedule(t)
		require.NoError(t, s.MarkInvoiced("INV-006"))
		require.NoError(t, s.MarkPaid(decimal.Zero, valueobject.NewCalendarDate(2025, time.April, 2)))
		assert.Error(t, s.Cancel())
	})
}

func TestBillingSchedule_EffectivePaidAmount_Fallback(t *testing.T) {
	s := newTestSchedule(t)
	assert.True(t, s.EffectivePaidAmount().Equal(s.Amount))
}
