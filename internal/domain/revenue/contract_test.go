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

func newTestContract(t *testing.T) *Contract {
	t.Helper()
	c, err := NewContract(
		uuid.New(),
		"CT-2025-001",
		"SaaS subscription",
		uuid.New(),
		"Acme Corp",
		valueobject.MustMoney("12000", valueobject.USD),
		valueobject.NewCalendarDate(2025, time.January, 1),
		valueobject.NewCalendarDate(2025, time.December, 31),
		nil,
	)
	require.NoError(t, err)
	return c
}

func newTestVersion(t *testing.T, c *Contract, number int) *ContractVersion {
	t.Helper()
	v, err := NewContractVersion(c.TenantID, c.ID, number, c.StartDate, InitialVersionDescription, c.TotalValue)
	require.NoError(t, err)
	return v
}

func TestNewContract(t *testing.T) {
	t.Run("creates draft contract with event", func(t *testing.T) {
		c := newTestContract(t)
		assert.Equal(t, ContractStatusDraft, c.Status)
		assert.Nil(t, c.CurrentVersionID)
		assert.Equal(t, valueobject.USD, c.Currency)
		assert.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeContractCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects missing contract number", func(t *testing.T) {
		_, err := NewContract(uuid.New(), "", "x", uuid.New(), "y",
			valueobject.MustMoney("100", valueobject.USD),
			valueobject.CalendarDate{}, valueobject.CalendarDate{}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative total value", func(t *testing.T) {
		_, err := NewContract(uuid.New(), "CT-1", "x", uuid.New(), "y",
			valueobject.MustMoney("-1", valueobject.USD),
			valueobject.CalendarDate{}, valueobject.CalendarDate{}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewContract(uuid.New(), "CT-1", "x", uuid.New(), "y",
			valueobject.MustMoney("100", valueobject.USD),
			valueobject.NewCalendarDate(2025, time.June, 1),
			valueobject.NewCalendarDate(2025, time.January, 1), nil)
		assert.Error(t, err)
	})
}

func TestContract_AttachVersion(t *testing.T) {
	t.Run("first version becomes current", func(t *testing.T) {
		c := newTestContract(t)
		v := newTestVersion(t, c, 1)

		require.NoError(t, c.AttachVersion(v))
		require.NotNil(t, c.CurrentVersionID)
		assert.Equal(t, v.ID, *c.CurrentVersionID)
		assert.Equal(t, 2, c.NextVersionNumber())
	})

	t.Run("rejects non-monotonic version numbers", func(t *testing.T) {
		c := newTestContract(t)
		v := newTestVersion(t, c, 3)
		assert.Error(t, c.AttachVersion(v))
	})

	t.Run("rejects version of another contract", func(t *testing.T) {
		c := newTestContract(t)
		other := newTestContract(t)
		v := newTestVersion(t, other, 1)
		assert.Error(t, c.AttachVersion(v))
	})

	t.Run("second version marks active contract modified", func(t *testing.T) {
		c := newTestContract(t)
		require.NoError(t, c.AttachVersion(newTestVersion(t, c, 1)))
		require.NoError(t, c.Activate())

		require.NoError(t, c.AttachVersion(newTestVersion(t, c, 2)))
		assert.Equal(t, ContractStatusModified, c.Status)
	})
}

func TestContract_Lifecycle(t *testing.T) {
	t.Run("activate only from draft", func(t *testing.T) {
		c := newTestContract(t)
		require.NoError(t, c.Activate())
		assert.Error(t, c.Activate())
	})

	t.Run("terminate blocks further modification", func(t *testing.T) {
		c := newTestContract(t)
		require.NoError(t, c.Terminate())
		assert.Error(t, c.Modify(valueobject.MustMoney("500", valueobject.USD)))
	})
}

func TestContractVersion_AllocatedTotal(t *testing.T) {
	c := newTestContract(t)
	v := newTestVersion(t, c, 1)

	po1, err := NewPerformanceObligation(c.TenantID, c.ID, v.ID, "licences",
		decimal.NewFromInt(8000), RecognitionPointInTime, "", decimal.Zero,
		valueobject.CalendarDate{}, valueobject.CalendarDate{})
	require.NoError(t, err)
	po2, err := NewPerformanceObligation(c.TenantID, c.ID, v.ID, "support",
		decimal.NewFromInt(3000), RecognitionOverTime, MeasurementOutput, decimal.Zero,
		valueobject.CalendarDate{}, valueobject.CalendarDate{})
	require.NoError(t, err)

	v.Obligations = append(v.Obligations, *po1, *po2)
	assert.True(t, v.AllocatedTotal().Equal(decimal.NewFromInt(11000)))
}

func TestNewContractLineItem(t *testing.T) {
	t.Run("derives line total", func(t *testing.T) {
		li, err := NewContractLineItem(uuid.New(), uuid.New(), "seats",
			decimal.NewFromInt(10), decimal.NewFromFloat(99.90))
		require.NoError(t, err)
		assert.True(t, li.LineTotal.Equal(decimal.NewFromInt(999)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewContractLineItem(uuid.New(), uuid.New(), "seats",
			decimal.Zero, decimal.NewFromInt(10))
		assert.Error(t, err)
	})
}
