package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Reminder sends the invoice reminders of a user that fall on a given date.
type Reminder interface {
	RemindUser(ctx context.Context, userID string, on time.Time) (int, error)
}

// OwnerLister lists users that own at least one active card.
type OwnerLister interface {
	ListOwnersWithActiveCards(ctx context.Context) ([]string, error)
}

// InvoiceReminderJob sends the closing and due reminders of one card owner for one day.
type InvoiceReminderJob struct {
	userID   string
	on       time.Time
	reminder Reminder
}

// NewInvoiceReminderJob creates a reminder job for userID on the date of on.
func NewInvoiceReminderJob(userID string, on time.Time, reminder Reminder) *InvoiceReminderJob {
	return &InvoiceReminderJob{
		userID:   userID,
		on:       on,
		reminder: reminder,
	}
}

// Execute runs the reminder job
func (j *InvoiceReminderJob) Execute(ctx context.Context) error {
	sent, err := j.reminder.RemindUser(ctx, j.userID, j.on)
	if err != nil {
		return fmt.Errorf("invoice reminders failed: %w", err)
	}

	slog.InfoContext(ctx, "invoice reminders sent", "user_id", j.userID, "date", j.on.Format("2006-01-02"), "sent", sent)
	return nil
}

// UserID returns the user ID associated with this job
func (j *InvoiceReminderJob) UserID() string {
	return j.userID
}

// Description returns a human-readable description of the job
func (j *InvoiceReminderJob) Description() string {
	return fmt.Sprintf("Invoice reminders for %s", j.on.Format("2006-01-02"))
}

// InvoiceReminderJobs returns a job provider that creates one reminder job per owner
// of an active card, dated at the trigger time.
func InvoiceReminderJobs(owners OwnerLister, reminder Reminder) JobProvider {
	return func(ctx context.Context, now time.Time) ([]Job, error) {
		userIDs, err := owners.ListOwnersWithActiveCards(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list card owners: %w", err)
		}

		jobs := make([]Job, 0, len(userIDs))
		for _, userID := range userIDs {
			jobs = append(jobs, NewInvoiceReminderJob(userID, now, reminder))
		}
		return jobs, nil
	}
}
