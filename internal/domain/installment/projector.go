package installment

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Bucketing decides which invoice an installment is attributed to.
type Bucketing int

const (
	// BucketCalendarMonth attributes installment i to the calendar month of its anchor
	// date, ignoring the card's closing day.
	BucketCalendarMonth Bucketing = iota
	// BucketBillingCycle attributes the first installment to the invoice whose billing
	// cycle contains the purchase date, and installment i to that invoice's month + i.
	BucketBillingCycle
)

// ElapsedRule decides how many installments of a purchase have elapsed at an instant.
type ElapsedRule int

const (
	// ElapsedThirtyDay counts whole 30-day periods since the purchase.
	ElapsedThirtyDay ElapsedRule = iota
	// ElapsedCalendar counts calendar months since the purchase.
	ElapsedCalendar
)

// ParseBucketing maps a configuration value ("calendar" or "cycle") to a Bucketing.
func ParseBucketing(s string) (Bucketing, error) {
	switch s {
	case "", "calendar":
		return BucketCalendarMonth, nil
	case "cycle":
		return BucketBillingCycle, nil
	default:
		return 0, fmt.Errorf("unknown bucketing %q (expected calendar or cycle)", s)
	}
}

// ParseElapsedRule maps a configuration value ("thirty_day" or "calendar") to an ElapsedRule.
func ParseElapsedRule(s string) (ElapsedRule, error) {
	switch s {
	case "", "thirty_day":
		return ElapsedThirtyDay, nil
	case "calendar":
		return ElapsedCalendar, nil
	default:
		return 0, fmt.Errorf("unknown elapsed rule %q (expected thirty_day or calendar)", s)
	}
}

// Projector computes invoices, used limits and projections from purchase records.
// The zero value uses calendar-month bucketing and the 30-day elapsed rule.
//
// Every method is a pure function of its arguments: inputs are never mutated and equal
// inputs produce equal outputs, so results are safe to memoize and to compute
// concurrently.
type Projector struct {
	Bucketing Bucketing
	Elapsed   ElapsedRule
}

// InvoiceData returns the invoice of cardID for the target month. Items keep the order of
// purchases. closingDay is only consulted with BucketBillingCycle and to fill the
// invoice's cycle.
func (pr Projector) InvoiceData(purchases []Purchase, cardID string, target Month, closingDay int) Invoice {
	inv := Invoice{
		CardID: cardID,
		Month:  target,
		Cycle:  BillingCycle(target, closingDay),
		Items:  []LineItem{},
		Total:  decimal.Zero,
	}

	for _, p := range purchases {
		if p.CardID != cardID {
			continue
		}

		first := MonthOf(p.PurchaseDate)
		if pr.Bucketing == BucketBillingCycle {
			first = invoiceMonthOf(p.PurchaseDate, closingDay)
		}

		item, ok := lineItemFor(p, first, target)
		if !ok {
			continue
		}
		inv.Items = append(inv.Items, item)
		inv.Total = inv.Total.Add(item.Amount)
	}

	return inv
}

// UsedLimit returns the outstanding installment obligations of cardID at now:
// the sum of InstallmentAmount x remaining installments over the card's purchases.
// Purchases dated after now count in full.
func (pr Projector) UsedLimit(purchases []Purchase, cardID string, now time.Time) decimal.Decimal {
	used := decimal.Zero

	for _, p := range purchases {
		if p.CardID != cardID {
			continue
		}

		elapsed := pr.elapsed(p.PurchaseDate, now)
		if elapsed < 0 {
			elapsed = 0
		}
		remaining := p.InstallmentCount - elapsed
		if remaining <= 0 {
			continue
		}

		used = used.Add(p.InstallmentAmount.Mul(decimal.NewFromInt(int64(remaining))))
	}

	return used
}

// Projection returns monthsAhead+1 consecutive month summaries starting at start.
// Installments are bucketed by the calendar month of their anchor date across all
// purchases (card and standalone). contractsMonthlyTotal is added to every month's
// expenses. A negative monthsAhead is treated as zero.
func (pr Projector) Projection(purchases []Purchase, contractsMonthlyTotal decimal.Decimal, monthsAhead int, start Month) []MonthSummary {
	if monthsAhead < 0 {
		monthsAhead = 0
	}

	summaries := make([]MonthSummary, 0, monthsAhead+1)
	for offset := 0; offset <= monthsAhead; offset++ {
		month := start.AddMonths(offset)
		summary := MonthSummary{
			Month:        month,
			Expenses:     contractsMonthlyTotal,
			Income:       decimal.Zero,
			Installments: []LineItem{},
		}

		for _, p := range purchases {
			item, ok := lineItemFor(p, MonthOf(p.PurchaseDate), month)
			if !ok {
				continue
			}
			summary.Installments = append(summary.Installments, item)
			if p.IsIncome() {
				summary.Income = summary.Income.Add(item.Amount)
			} else {
				summary.Expenses = summary.Expenses.Add(item.Amount)
			}
		}

		summary.Balance = summary.Income.Sub(summary.Expenses)
		summaries = append(summaries, summary)
	}

	return summaries
}

// SortByAmountDesc returns a copy of items ordered by amount, largest first.
// Ties keep their original order.
func SortByAmountDesc(items []LineItem) []LineItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b LineItem) int {
		return b.Amount.Cmp(a.Amount)
	})
	return sorted
}

func (pr Projector) elapsed(from, to time.Time) int {
	if pr.Elapsed == ElapsedCalendar {
		return MonthsElapsed(from, to)
	}
	return ApproxMonthsElapsed(from, to)
}

// lineItemFor returns the installment of p that falls in target, given the month that
// holds its first installment. Month-end clamping keeps installment i inside first+i,
// so the index is the month distance.
func lineItemFor(p Purchase, first, target Month) (LineItem, bool) {
	i := monthsBetween(first, target)
	if i < 0 || i >= p.InstallmentCount {
		return LineItem{}, false
	}

	return LineItem{
		Purchase:           p,
		CurrentInstallment: i + 1,
		Amount:             p.InstallmentAmount,
		Date:               InstallmentMonth(p.PurchaseDate, i),
	}, true
}
