package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimestamp struct{ secs int64 }

func (f fakeTimestamp) Seconds() int64 { return f.secs }

func TestParseCalendarDate(t *testing.T) {
	want := NewCalendarDate(2025, time.March, 31)

	tests := []struct {
		name  string
		input interface{}
	}{
		{"iso date string", "2025-03-31"},
		{"iso datetime string", "2025-03-31T10:30:00Z"},
		{"datetime without zone", "2025-03-31T10:30:00"},
		{"slash-separated string", "2025/03/31"},
		{"time.Time", time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)},
		{"unix seconds", int64(1743379200)},
		{"timestamp wrapper", fakeTimestamp{secs: 1743379200}},
		{"calendar date itself", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCalendarDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}

	t.Run("nil yields zero date", func(t *testing.T) {
		got, err := ParseCalendarDate(nil)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("empty string yields zero date", func(t *testing.T) {
		got, err := ParseCalendarDate("")
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("garbage string fails", func(t *testing.T) {
		_, err := ParseCalendarDate("not-a-date")
		assert.Error(t, err)
	})

	t.Run("unsupported type fails", func(t *testing.T) {
		_, err := ParseCalendarDate(struct{}{})
		assert.Error(t, err)
	})
}

func TestCalendarDate_Arithmetic(t *testing.T) {
	t.Run("add months crosses year boundary", func(t *testing.T) {
		d := NewCalendarDate(2025, time.November, 1)
		assert.Equal(t, "2026-02-01", d.AddMonths(3).String())
	})

	t.Run("add days", func(t *testing.T) {
		d := NewCalendarDate(2025, time.March, 24)
		assert.Equal(t, "2025-03-31", d.AddDays(7).String())
	})

	t.Run("months until within year", func(t *testing.T) {
		start := NewCalendarDate(2025, time.January, 1)
		end := NewCalendarDate(2025, time.December, 31)
		assert.Equal(t, 11, start.MonthsUntil(end))
	})

	t.Run("months until across years", func(t *testing.T) {
		start := NewCalendarDate(2025, time.March, 1)
		end := NewCalendarDate(2026, time.January, 1)
		assert.Equal(t, 10, start.MonthsUntil(end))
	})
}

func TestCalendarDate_JSON(t *testing.T) {
	t.Run("round trips as iso string", func(t *testing.T) {
		d := NewCalendarDate(2025, time.June, 15)
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2025-06-15"`, string(data))

		var back CalendarDate
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Equal(d))
	})

	t.Run("zero date marshals to null", func(t *testing.T) {
		data, err := json.Marshal(CalendarDate{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})
}

func TestCalendarDate_Scan(t *testing.T) {
	var d CalendarDate
	require.NoError(t, d.Scan(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-01", d.String())

	require.NoError(t, d.Scan("2025-02-03"))
	assert.Equal(t, "2025-02-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
