package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// Month represents a calendar month, the bucket key of every monthly
// performance series.
type Month struct {
	y int        // year
	m time.Month // month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	// Normalize through a date so that month 13 becomes January next year.
	d := New(year, month, 1)
	return Month{d.y, d.m}
}

// MonthOf returns the calendar month containing the given date.
func MonthOf(d Date) Month { return Month{d.y, d.m} }

// Year returns the year of the month.
func (m Month) Year() int { return m.y }

// Month returns the month within the year.
func (m Month) Month() time.Month { return m.m }

// Start returns the first day of the month.
func (m Month) Start() Date { return New(m.y, m.m, 1) }

// End returns the last day of the month.
func (m Month) End() Date { return New(m.y, m.m+1, 0) }

// Contains reports whether the day falls within the month.
func (m Month) Contains(d Date) bool { return m == MonthOf(d) }

// Add returns the month i months after m (before when i is negative).
func (m Month) Add(i int) Month { return NewMonth(m.y, m.m+time.Month(i)) }

// Next returns the following calendar month.
func (m Month) Next() Month { return m.Add(1) }

// Prev returns the preceding calendar month.
func (m Month) Prev() Month { return m.Add(-1) }

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m.Compare(x) < 0 }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m.Compare(x) > 0 }

// Compare returns -1, 0 or 1 when m is before, equal to, or after x.
func (m Month) Compare(x Month) int {
	switch {
	case m.y != x.y:
		if m.y < x.y {
			return -1
		}
		return 1
	case m.m != x.m:
		if m.m < x.m {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// IsZero returns true if the month is the zero value.
func (m Month) IsZero() bool { return m.y == 0 && m.m == 0 }

// String formats the month as "2006-01".
func (m Month) String() string { return m.Start().Format(MonthFormat) }

// ParseMonth parses a Month from a "2006-01" string.
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse(MonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return Month{on.Year(), on.Month()}, nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

func (j *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	m, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*j = m
	return nil
}

func (j Month) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)

// Months returns every month from 'from' to 'to' inclusive, in
// chronological order. It returns nil when 'to' is before 'from'.
func Months(from, to Month) []Month {
	if to.Before(from) {
		return nil
	}
	var months []Month
	for m := from; !m.After(to); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Schedule returns the month-end valuation dates covering [from, to]: the
// last day of every month from the month of 'from' to the month of 'to',
// capped at 'to' for the final month.
func Schedule(from, to Date) []Date {
	if to.Before(from) {
		return nil
	}
	var days []Date
	for _, m := range Months(MonthOf(from), MonthOf(to)) {
		end := m.End()
		if end.After(to) {
			end = to
		}
		days = append(days, end)
	}
	return days
}
