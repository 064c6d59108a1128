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

func TestNewPerformanceObligation(t *testing.T) {
	tenantID, contractID, versionID := uuid.New(), uuid.New(), uuid.New()

	t.Run("derives recognized and deferred amounts", func(t *testing.T) {
		po, err := NewPerformanceObligation(tenantID, contractID, versionID, "support",
			decimal.NewFromInt(8000), RecognitionOverTime, MeasurementInput,
			decimal.NewFromInt(25), valueobject.CalendarDate{}, valueobject.CalendarDate{})
		require.NoError(t, err)

		assert.True(t, po.RecognizedAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, po.DeferredAmount.Equal(decimal.NewFromInt(6000)))
		assert.False(t, po.Satisfied)
	})

	t.Run("rejects zero allocated price", func(t *testing.T) {
		_, err := NewPerformanceObligation(tenantID, contractID, versionID, "x",
			decimal.Zero, RecognitionOverTime, "", decimal.Zero,
			valueobject.CalendarDate{}, valueobject.CalendarDate{})
		assert.Error(t, err)
	})

	t.Run("rejects negative allocated price", func(t *testing.T) {
		_, err := NewPerformanceObligation(tenantID, contractID, versionID, "x",
			decimal.NewFromInt(-100), RecognitionOverTime, "", decimal.Zero,
			valueobject.CalendarDate{}, valueobject.CalendarDate{})
		assert.Error(t, err)
	})

	t.Run("rejects percent complete above 100", func(t *testing.T) {
		_, err := NewPerformanceObligation(tenantID, contractID, versionID, "x",
			decimal.NewFromInt(100), RecognitionOverTime, "", decimal.NewFromInt(101),
			valueobject.CalendarDate{}, valueobject.CalendarDate{})
		assert.Error(t, err)
	})

	t.Run("rejects unknown recognition method", func(t *testing.T) {
		_, err := NewPerformanceObligation(tenantID, contractID, versionID, "x",
			decimal.NewFromInt(100), RecognitionMethod("sometimes"), "", decimal.Zero,
			valueobject.CalendarDate{}, valueobject.CalendarDate{})
		assert.Error(t, err)
	})

	t.Run("drops measurement method for point-in-time", func(t *testing.T) {
		po, err := NewPerformanceObligation(tenantID, contractID, versionID, "x",
			decimal.NewFromInt(100), RecognitionPointInTime, MeasurementInput, decimal.Zero,
			valueobject.CalendarDate{}, valueobject.CalendarDate{})
		require.NoError(t, err)
		assert.Empty(t, po.MeasurementMethod)
	})
}

func TestPerformanceObligation_UpdateProgress(t *testing.T) {
	newPO := func(t *testing.T) *PerformanceObligation {
		po, err := NewPerformanceObligation(uuid.New(), uuid.New(), uuid.New(), "x",
			decimal.NewFromInt(1000), RecognitionOverTime, MeasurementOutput,
			decimal.NewFromInt(40), valueobject.CalendarDate{}, valueobject.CalendarDate{})
		require.NoError(t, err)
		return po
	}

	t.Run("recomputes derived amounts", func(t *testing.T) {
		po := newPO(t)
		require.NoError(t, po.UpdateProgress(decimal.NewFromInt(75)))
		assert.True(t, po.RecognizedAmount.Equal(decimal.NewFromInt(750)))
		assert.True(t, po.DeferredAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("reaching 100 marks satisfied", func(t *testing.T) {
		po := newPO(t)
		require.NoError(t, po.UpdateProgress(decimal.NewFromInt(100)))
		assert.True(t, po.Satisfied)
		assert.True(t, po.DeferredAmount.IsZero())
	})

	t.Run("progress cannot decrease", func(t *testing.T) {
		po := newPO(t)
		assert.Error(t, po.UpdateProgress(decimal.NewFromInt(10)))
	})

	t.Run("recognized plus deferred always equals allocated", func(t *testing.T) {
		po := newPO(t)
		for _, pct := range []int64{41, 50, 66, 99, 100} {
			require.NoError(t, po.UpdateProgress(decimal.NewFromInt(pct)))
			sum := po.RecognizedAmount.Add(po.DeferredAmount)
			assert.True(t, sum.Equal(po.AllocatedPrice), "pct %d: %s", pct, sum)
		}
	})
}

func TestPerformanceObligation_CoverageMonths(t *testing.T) {
	po, err := NewPerformanceObligation(uuid.New(), uuid.New(), uuid.New(), "x",
		decimal.NewFromInt(1000), RecognitionOverTime, "", decimal.Zero,
		valueobject.NewCalendarDate(2025, time.March, 1),
		valueobject.NewCalendarDate(2025, time.September, 1))
	require.NoError(t, err)
	assert.Equal(t, 6, po.CoverageMonths())

	po.StartDate = valueobject.CalendarDate{}
	assert.Equal(t, 0, po.CoverageMonths())
}
