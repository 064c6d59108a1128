package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CalendarDate is the single internal date representation for the engine.
// All date-like inputs (ISO-8601 strings, time.Time values, unix-second
// wrappers) are normalized through ParseCalendarDate before any arithmetic;
// business logic never branches on the runtime type of a date again.
//
// The zero value means "absent".
type CalendarDate struct {
	t time.Time
}

// acceptedLayouts are tried in order when parsing string input
var acceptedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// NewCalendarDate creates a CalendarDate from year, month and day
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// CalendarDateFromTime truncates a time.Time to its calendar day (UTC)
func CalendarDateFromTime(t time.Time) CalendarDate {
	if t.IsZero() {
		return CalendarDate{}
	}
	u := t.UTC()
	return CalendarDate{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseCalendarDate converts any supported date-like value into a
// CalendarDate. Supported inputs: CalendarDate, *CalendarDate, time.Time,
// *time.Time, string (ISO-8601 date or datetime), int64/float64 unix seconds,
// and anything exposing `Seconds() int64` (timestamp wrappers). nil and the
// empty string yield the zero CalendarDate without error.
func ParseCalendarDate(v interface{}) (CalendarDate, error) {
	switch x := v.(type) {
	case nil:
		return CalendarDate{}, nil
	case CalendarDate:
		return x, nil
	case *CalendarDate:
		if x == nil {
			return CalendarDate{}, nil
		}
		return *x, nil
	case time.Time:
		return CalendarDateFromTime(x), nil
	case *time.Time:
		if x == nil {
			return CalendarDate{}, nil
		}
		return CalendarDateFromTime(*x), nil
	case string:
		if x == "" {
			return CalendarDate{}, nil
		}
		for _, layout := range acceptedLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return CalendarDateFromTime(t), nil
			}
		}
		return CalendarDate{}, fmt.Errorf("unparseable date string: %q", x)
	case int64:
		return CalendarDateFromTime(time.Unix(x, 0)), nil
	case float64:
		return CalendarDateFromTime(time.Unix(int64(x), 0)), nil
	case interface{ Seconds() int64 }:
		return CalendarDateFromTime(time.Unix(x.Seconds(), 0)), nil
	default:
		return CalendarDate{}, fmt.Errorf("unsupported date value of type %T", v)
	}
}

// IsZero reports whether the date is absent
func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the underlying time.Time (midnight UTC)
func (d CalendarDate) Time() time.Time {
	return d.t
}

// Year returns the calendar year
func (d CalendarDate) Year() int {
	return d.t.Year()
}

// Month returns the calendar month
func (d CalendarDate) Month() time.Month {
	return d.t.Month()
}

// Day returns the day of month
func (d CalendarDate) Day() int {
	return d.t.Day()
}

// AddMonths returns the date advanced by n calendar months
func (d CalendarDate) AddMonths(n int) CalendarDate {
	return CalendarDateFromTime(d.t.AddDate(0, n, 0))
}

// AddDays returns the date advanced by n days
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDateFromTime(d.t.AddDate(0, 0, n))
}

// MonthsUntil returns the number of whole months from d to other.
// Partial months count via day-of-month comparison, matching the
// year*12+month difference used for billing horizons.
func (d CalendarDate) MonthsUntil(other CalendarDate) int {
	months := (other.Year()-d.Year())*12 + int(other.Month()) - int(d.Month())
	return months
}

// Before reports whether d is before other
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.t.Before(other.t)
}

// After reports whether d is after other
func (d CalendarDate) After(other CalendarDate) bool {
	return d.t.After(other.t)
}

// Equal reports whether both dates are the same calendar day
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.t.Equal(other.t)
}

// String returns the ISO-8601 date representation
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// MarshalJSON encodes the date as an ISO-8601 string, or null when absent
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts an ISO-8601 string, a unix timestamp, or null
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner for database reads
func (d *CalendarDate) Scan(value interface{}) error {
	if value == nil {
		*d = CalendarDate{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = CalendarDateFromTime(v)
		return nil
	case string:
		parsed, err := ParseCalendarDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseCalendarDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("failed to scan CalendarDate: unsupported type %T", value)
	}
}
