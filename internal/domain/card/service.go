package card

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carteira/internal/domain/installment"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	cardMeter           = otel.Meter("carteira/card")
	invoicesComputed, _ = cardMeter.Int64Counter("card.invoice.computed", metric.WithDescription("Invoices computed by cache outcome"))
	limitsComputed, _   = cardMeter.Int64Counter("card.limit.computed", metric.WithDescription("Used-limit computations"))
)

// PurchaseSource loads the purchases charged to a card.
type PurchaseSource interface {
	ListByCardID(ctx context.Context, cardID string) ([]installment.Purchase, error)
}

// Service contains the business logic for card operations, including the invoice and
// limit views derived from the card's purchases.
type Service struct {
	repo      Repository
	purchases PurchaseSource
	projector installment.Projector
	cache     *InvoiceCache
	now       func() time.Time
}

// NewService creates a new card service. cache may be nil to disable memoization.
func NewService(repo Repository, purchases PurchaseSource, projector installment.Projector, cache *InvoiceCache) *Service {
	return &Service{
		repo:      repo,
		purchases: purchases,
		projector: projector,
		cache:     cache,
		now:       time.Now,
	}
}

// CreateCard creates a new card with business validation
func (s *Service) CreateCard(ctx context.Context, params CreateParams) (*Card, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Card{
		ID:             uuid.NewString(),
		UserID:         params.UserID,
		Name:           strings.TrimSpace(params.Name),
		LastFourDigits: params.LastFourDigits,
		CreditLimit:    params.CreditLimit,
		ClosingDay:     params.ClosingDay,
		DueDay:         params.DueDay,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// GetCard retrieves a card by ID and verifies user ownership
func (s *Service) GetCard(ctx context.Context, cardID, userID string) (*Card, error) {
	c, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if c.UserID != userID {
		return nil, ErrForbidden
	}

	return c, nil
}

// CheckOwnership returns nil when cardID exists and belongs to userID.
func (s *Service) CheckOwnership(ctx context.Context, cardID, userID string) error {
	_, err := s.GetCard(ctx, cardID, userID)
	return err
}

// ListCards retrieves all cards of a user
func (s *Service) ListCards(ctx context.Context, userID string) ([]*Card, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	return s.repo.ListByUserID(ctx, userID)
}

// UpdateCard applies a partial update after verifying ownership
func (s *Service) UpdateCard(ctx context.Context, cardID, userID string, params UpdateParams) (*Card, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c, err := s.GetCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}

	params.Apply(c)
	c.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	// closing day changes move installments between invoices
	s.Invalidate(cardID)
	return updated, nil
}

// DeleteCard deletes a card after verifying ownership
func (s *Service) DeleteCard(ctx context.Context, cardID, userID string) error {
	if _, err := s.GetCard(ctx, cardID, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.Invalidate(cardID)
	return nil
}

// Invoice returns the invoice of a user's card for month.
func (s *Service) Invoice(ctx context.Context, cardID, userID string, month installment.Month) (*InvoiceView, error) {
	c, err := s.GetCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}

	return s.invoiceFor(ctx, c, month)
}

// LimitSummary returns the card's credit limit, the part committed to remaining
// installments at the current instant, and the difference.
func (s *Service) LimitSummary(ctx context.Context, cardID, userID string) (*Limit, error) {
	c, err := s.GetCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.ListByCardID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	used := s.projector.UsedLimit(purchases, c.ID, s.now())
	limitsComputed.Add(ctx, 1)

	return &Limit{
		CreditLimit:    c.CreditLimit,
		UsedLimit:      used,
		AvailableLimit: c.CreditLimit.Sub(used),
	}, nil
}

// Invalidate drops memoized invoices of cardID.
func (s *Service) Invalidate(cardID string) {
	if s.cache != nil {
		s.cache.Invalidate(cardID)
	}
}

// ListActiveCards returns a user's active cards.
func (s *Service) ListActiveCards(ctx context.Context, userID string) ([]*Card, error) {
	cards, err := s.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

// ListOwnersWithActiveCards returns users that own at least one active card.
func (s *Service) ListOwnersWithActiveCards(ctx context.Context) ([]string, error) {
	return s.repo.ListOwnersWithActiveCards(ctx)
}

func (s *Service) invoiceFor(ctx context.Context, c *Card, month installment.Month) (*InvoiceView, error) {
	view := &InvoiceView{
		CardName: c.Name,
		DueDate:  installment.DueDate(month, c.ClosingDay, c.DueDay),
	}

	var gen uint64
	if s.cache != nil {
		if inv, ok := s.cache.Get(c.ID, month); ok {
			invoicesComputed.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", "hit")))
			view.Invoice = inv
			return view, nil
		}
		gen = s.cache.Generation(c.ID)
	}

	purchases, err := s.purchases.ListByCardID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	view.Invoice = s.projector.InvoiceData(purchases, c.ID, month, c.ClosingDay)
	invoicesComputed.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", "miss")))

	if s.cache != nil {
		s.cache.Put(view.Invoice, gen)
	}
	return view, nil
}
