package installment

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Month identifies a calendar month, independent of day, time of day and location.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month t falls in, using t's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// NewMonth builds a Month, normalizing out-of-range month values (13 -> January of next year).
func NewMonth(year int, month time.Month) Month {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// ParseMonth parses a month in YYYY-MM form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return NewMonth(m.Year, m.Month+time.Month(n))
}

// Before reports whether m is chronologically before o.
func (m Month) Before(o Month) bool {
	return m.index() < o.index()
}

// FirstDay returns midnight UTC of the first day of m.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in m.
func (m Month) Days() int {
	// day 0 of the next month is the last day of this one
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns midnight UTC of the given day in m, clamped to the month's last day.
func (m Month) Date(day int) time.Time {
	if last := m.Days(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText encodes m as YYYY-MM.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a YYYY-MM month.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

// monthsBetween returns the signed number of calendar months from a to b.
func monthsBetween(a, b Month) int {
	return b.index() - a.index()
}
