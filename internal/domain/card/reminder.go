package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"
)

// Notifier delivers a notification to a user, honoring their preferences.
type Notifier interface {
	SendToUser(ctx context.Context, userID, title, body, category string, data map[string]string) (bool, error)
}

// Template is a notification title and body. {card}, {total} and {due} are replaced
// with the card name, the invoice total and the due date.
type Template struct {
	Title string
	Body  string
}

func (t Template) render(c *Card, view *InvoiceView) (string, string) {
	r := strings.NewReplacer(
		"{card}", c.Name,
		"{total}", view.Total.StringFixed(2),
		"{due}", view.DueDate.Format("02/01/2006"),
	)
	return r.Replace(t.Title), r.Replace(t.Body)
}

// ReminderService notifies card owners when an invoice closes and shortly before it is due.
type ReminderService struct {
	cards    *Service
	notifier Notifier
	closed   Template
	due      Template
	leadDays int
}

// NewReminderService creates a reminder service. leadDays is how many days before the
// due date the due reminder goes out; zero sends it on the due date.
func NewReminderService(cards *Service, notifier Notifier, closed, due Template, leadDays int) *ReminderService {
	return &ReminderService{
		cards:    cards,
		notifier: notifier,
		closed:   closed,
		due:      due,
		leadDays: leadDays,
	}
}

// RemindUser sends the reminders due on the calendar date of on for every active card
// of userID and returns how many notifications were delivered. Invoices without
// installments produce no reminder. A failed card does not stop the others; the
// failures are joined into the returned error.
func (r *ReminderService) RemindUser(ctx context.Context, userID string, on time.Time) (int, error) {
	cards, err := r.cards.ListActiveCards(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list cards: %w", err)
	}

	today := installment.NewMonth(on.Year(), on.Month()).Date(on.Day())
	sent := 0
	var errs []error

	for _, c := range cards {
		month := installment.MonthOf(today)
		if installment.BillingCycle(month, c.ClosingDay).End.Equal(today) {
			delivered, err := r.notify(ctx, c, month, r.closed, "closed")
			if err != nil {
				slog.Error("invoice reminder failed", "user_id", userID, "card_id", c.ID, "kind", "closed", "error", err)
				errs = append(errs, err)
			} else if delivered {
				sent++
			}
		}

		if dueMonth, ok := r.dueMonth(c, today); ok {
			delivered, err := r.notify(ctx, c, dueMonth, r.due, "due")
			if err != nil {
				slog.Error("invoice reminder failed", "user_id", userID, "card_id", c.ID, "kind", "due", "error", err)
				errs = append(errs, err)
			} else if delivered {
				sent++
			}
		}
	}

	return sent, errors.Join(errs...)
}

// dueMonth returns the invoice month whose due date is leadDays after today.
func (r *ReminderService) dueMonth(c *Card, today time.Time) (installment.Month, bool) {
	target := today.AddDate(0, 0, r.leadDays)
	m := installment.MonthOf(target)

	// an invoice is due in its own month or in the following one
	for _, candidate := range []installment.Month{m, m.AddMonths(-1)} {
		if installment.DueDate(candidate, c.ClosingDay, c.DueDay).Equal(target) {
			return candidate, true
		}
	}
	return installment.Month{}, false
}

func (r *ReminderService) notify(ctx context.Context, c *Card, month installment.Month, tmpl Template, kind string) (bool, error) {
	view, err := r.cards.invoiceFor(ctx, c, month)
	if err != nil {
		return false, fmt.Errorf("failed to compute invoice for card %s: %w", c.ID, err)
	}

	if view.Total.IsZero() {
		return false, nil
	}

	title, body := tmpl.render(c, view)
	data := map[string]string{
		"card_id": c.ID,
		"month":   month.String(),
		"type":    "invoice_" + kind,
	}

	ok, err := r.notifier.SendToUser(ctx, c.UserID, title, body, notification.CategoryInvoices, data)
	if err != nil {
		return false, fmt.Errorf("failed to send invoice reminder: %w", err)
	}

	slog.Info("invoice reminder processed", "user_id", c.UserID, "card_id", c.ID, "month", month.String(), "kind", kind, "delivered", ok)
	return ok, nil
}
