package installment

import "time"

// approxMonth is the fixed month length used by ApproxMonthsElapsed.
const approxMonth = 30 * 24 * time.Hour

// Cycle is a statement window. Start and End are inclusive calendar dates at midnight UTC.
type Cycle struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar date of t lies inside the cycle.
func (c Cycle) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(c.Start) && !d.After(c.End)
}

// BillingCycle returns the statement window that closes in ref.
//
// End is closingDay of ref and Start is the day after the closing date of the previous
// month, so consecutive cycles tile the calendar without gaps. Days that do not exist in
// a month clamp to its last day. The window usually spans two calendar months.
func BillingCycle(ref Month, closingDay int) Cycle {
	prevClose := ref.AddMonths(-1).Date(closingDay)
	return Cycle{
		Start: prevClose.AddDate(0, 0, 1),
		End:   ref.Date(closingDay),
	}
}

// DueDate returns the payment due date of the invoice that closes in ref.
// A due day after the closing day falls in the same month, otherwise in the next one.
func DueDate(ref Month, closingDay, dueDay int) time.Time {
	if dueDay > closingDay {
		return ref.Date(dueDay)
	}
	return ref.AddMonths(1).Date(dueDay)
}

// InstallmentMonth returns the anchor date of installment index (0-based) of a purchase
// made at purchaseDate: the same day of month, index months later, clamped to the
// target month's last day (Jan 31 + 1 month is Feb 28 or 29, never Mar 2).
// Time of day and location are preserved.
func InstallmentMonth(purchaseDate time.Time, index int) time.Time {
	year, month, day := purchaseDate.Date()
	first := time.Date(year, month+time.Month(index), 1,
		purchaseDate.Hour(), purchaseDate.Minute(), purchaseDate.Second(), purchaseDate.Nanosecond(),
		purchaseDate.Location())

	if last := MonthOf(first).Days(); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day,
		purchaseDate.Hour(), purchaseDate.Minute(), purchaseDate.Second(), purchaseDate.Nanosecond(),
		purchaseDate.Location())
}

// MonthsElapsed returns the calendar month difference between from and to, so that
// InstallmentMonth(from, MonthsElapsed(from, to)) lands in the same month as to.
func MonthsElapsed(from, to time.Time) int {
	return monthsBetween(MonthOf(from), MonthOf(to))
}

// ApproxMonthsElapsed returns floor((to - from) / 30 days) over the exact instant
// difference. It is an approximation of whole months, not a statement-cycle count, and
// can differ from MonthsElapsed by one near month boundaries.
func ApproxMonthsElapsed(from, to time.Time) int {
	d := to.Sub(from)
	n := int(d / approxMonth)
	if d < 0 && d%approxMonth != 0 {
		n--
	}
	return n
}

// invoiceMonthOf returns the month whose billing cycle contains date.
func invoiceMonthOf(date time.Time, closingDay int) Month {
	m := MonthOf(date)
	if date.Day() > m.Date(closingDay).Day() {
		return m.AddMonths(1)
	}
	return m
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
