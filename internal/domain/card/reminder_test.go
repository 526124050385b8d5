package card

import (
	"context"
	"errors"
	"testing"
	"time"

	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentNotification struct {
	userID, title, body, category string
	data                          map[string]string
}

type mockNotifier struct {
	sent      []sentNotification
	err       error
	failCards map[string]bool
}

func (m *mockNotifier) SendToUser(ctx context.Context, userID, title, body, category string, data map[string]string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.failCards[data["card_id"]] {
		return false, errors.New("push rejected for " + data["card_id"])
	}
	m.sent = append(m.sent, sentNotification{userID, title, body, category, data})
	return true, nil
}

var (
	closedTemplate = Template{Title: "Fatura {card} fechada", Body: "Total R$ {total}, vence em {due}"}
	dueTemplate    = Template{Title: "Fatura {card} vencendo", Body: "Pague R$ {total} até {due}"}
)

func newReminder(c *Card, notifier Notifier, lead int, ps ...installment.Purchase) *ReminderService {
	cards := NewService(repoWith(c), purchasesWith(ps...), installment.Projector{}, NewInvoiceCache())
	return NewReminderService(cards, notifier, closedTemplate, dueTemplate, lead)
}

func TestRemindUser_ClosingDay(t *testing.T) {
	notifier := &mockNotifier{}
	r := newReminder(testCard(), notifier, 3, notebook())

	sent, err := r.RemindUser(context.Background(), "user-1", time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 1, sent)
	n := notifier.sent[0]
	assert.Equal(t, "user-1", n.userID)
	assert.Equal(t, notification.CategoryInvoices, n.category)
	assert.Equal(t, "Fatura Nubank fechada", n.title)
	assert.Equal(t, "Total R$ 100.00, vence em 20/06/2024", n.body)
	assert.Equal(t, "2024-06", n.data["month"])
	assert.Equal(t, "invoice_closed", n.data["type"])
}

func TestRemindUser_DueLeadDays(t *testing.T) {
	notifier := &mockNotifier{}
	r := newReminder(testCard(), notifier, 3, notebook())

	// due on the 20th, reminder three days earlier
	sent, err := r.RemindUser(context.Background(), "user-1", day(2024, time.June, 17))
	require.NoError(t, err)

	require.Equal(t, 1, sent)
	assert.Equal(t, "Pague R$ 100.00 até 20/06/2024", notifier.sent[0].body)
	assert.Equal(t, "invoice_due", notifier.sent[0].data["type"])
}

func TestRemindUser_DueNextMonth(t *testing.T) {
	c := testCard()
	c.ClosingDay = 25
	c.DueDay = 5
	notifier := &mockNotifier{}
	r := newReminder(c, notifier, 0, notebook())

	// the May invoice closes on May 25 and is due on June 5
	sent, err := r.RemindUser(context.Background(), "user-1", day(2024, time.June, 5))
	require.NoError(t, err)

	require.Equal(t, 1, sent)
	assert.Equal(t, "2024-05", notifier.sent[0].data["month"])
}

func TestRemindUser_NothingToSend(t *testing.T) {
	tests := []struct {
		name string
		card func() *Card
		on   time.Time
	}{
		{"ordinary day", testCard, day(2024, time.June, 12)},
		{"empty invoice", testCard, day(2025, time.June, 10)},
		{"inactive card", func() *Card { c := testCard(); c.Active = false; return c }, day(2024, time.June, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			r := newReminder(tt.card(), notifier, 3, notebook())

			sent, err := r.RemindUser(context.Background(), "user-1", tt.on)
			require.NoError(t, err)
			assert.Zero(t, sent)
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestRemindUser_ClampedClosingDay(t *testing.T) {
	c := testCard()
	c.ClosingDay = 31
	c.DueDay = 10
	notifier := &mockNotifier{}
	r := newReminder(c, notifier, 3, notebook())

	sent, err := r.RemindUser(context.Background(), "user-1", day(2024, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestRemindUser_NotifierError(t *testing.T) {
	r := newReminder(testCard(), &mockNotifier{err: errors.New("boom")}, 3, notebook())

	_, err := r.RemindUser(context.Background(), "user-1", day(2024, time.June, 10))
	assert.Error(t, err)
}

func TestRemindUser_FailedCardDoesNotStopOthers(t *testing.T) {
	first := testCard()
	second := testCard()
	second.ID = "card-2"
	second.Name = "Inter"

	repo := repoWith(first)
	repo.ListByUserIDFunc = func(ctx context.Context, userID string) ([]*Card, error) {
		a, b := *first, *second
		return []*Card{&a, &b}, nil
	}

	other := notebook()
	other.ID = "p-2"
	other.CardID = "card-2"

	notifier := &mockNotifier{failCards: map[string]bool{"card-1": true}}
	cards := NewService(repo, purchasesWith(notebook(), other), installment.Projector{}, NewInvoiceCache())
	r := NewReminderService(cards, notifier, closedTemplate, dueTemplate, 3)

	sent, err := r.RemindUser(context.Background(), "user-1", day(2024, time.June, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card-1")

	assert.Equal(t, 1, sent)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "card-2", notifier.sent[0].data["card_id"])
	assert.Equal(t, "Fatura Inter fechada", notifier.sent[0].title)
}
