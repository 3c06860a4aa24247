// Package datemath provides day-granularity calendar date arithmetic shared
// by the booking store and the calendar engine. All comparisons strip
// time-of-day, so a booking ending "today" still covers all of today.
package datemath

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar date with no time-of-day component. The zero value is
// the zero date and reports IsZero. Dates serialize to "YYYY-MM-DD".
type Date struct {
	t time.Time
}

// New builds a Date from year, month and day. Out-of-range months and days
// normalize the way time.Date does (month 0 is December of year-1, month 13
// is January of year+1).
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a "YYYY-MM-DD" string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time exposes the date as a UTC-midnight time.Time, for callers that need
// to hand the value to libraries speaking time.Time (validators, templates).
func (d Date) Time() time.Time { return d.t }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1 ordering d against other.
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.t.Format(layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the given month, honoring leap
// years. Out-of-range months normalize to the adjacent year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday index of the first day of the month,
// 0 = Sunday, matching the calendar grid's leading padding count.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}
