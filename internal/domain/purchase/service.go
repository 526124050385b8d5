package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carteira/internal/domain/installment"

	"github.com/google/uuid"
)

// CardOwnership verifies that a card exists and belongs to a user.
type CardOwnership interface {
	CheckOwnership(ctx context.Context, cardID, userID string) error
}

// Invalidator drops memoized results derived from a card's purchases.
type Invalidator interface {
	Invalidate(cardID string)
}

// Service contains the business logic for purchase operations
type Service struct {
	repo  Repository
	cards CardOwnership
	cache Invalidator
	now   func() time.Time
}

// NewService creates a new purchase service. cache may be nil.
func NewService(repo Repository, cards CardOwnership, cache Invalidator) *Service {
	return &Service{
		repo:  repo,
		cards: cards,
		cache: cache,
		now:   time.Now,
	}
}

// CreatePurchase validates params, fixes the installment amount and stores the purchase.
func (s *Service) CreatePurchase(ctx context.Context, params CreateParams) (*Purchase, error) {
	if params.Kind == "" {
		params.Kind = installment.KindExpense
	}
	params.Description = strings.TrimSpace(params.Description)
	params.Category = strings.TrimSpace(params.Category)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.CardID != "" {
		if err := s.cards.CheckOwnership(ctx, params.CardID, params.UserID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	p := Purchase{
		ID:                uuid.NewString(),
		UserID:            params.UserID,
		CardID:            params.CardID,
		Description:       params.Description,
		TotalAmount:       params.TotalAmount,
		InstallmentCount:  params.InstallmentCount,
		InstallmentAmount: InstallmentAmount(params.TotalAmount, params.InstallmentCount),
		PurchaseDate:      params.PurchaseDate,
		Kind:              params.Kind,
		Category:          params.Category,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	s.invalidate(created.CardID)
	return created, nil
}

// GetPurchase retrieves a purchase by ID and verifies user ownership
func (s *Service) GetPurchase(ctx context.Context, id, userID string) (*Purchase, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPurchaseNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	if p.UserID != userID {
		return nil, ErrForbidden
	}

	return p, nil
}

// ListPurchases lists a user's purchases, optionally restricted to one of their cards.
func (s *Service) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	if filter.CardID != "" {
		if err := s.cards.CheckOwnership(ctx, filter.CardID, filter.UserID); err != nil {
			return nil, err
		}
	}

	return s.repo.List(ctx, filter)
}

// UpdateCategory recategorizes a purchase. Amounts and dates are immutable.
func (s *Service) UpdateCategory(ctx context.Context, id, userID, category string) (*Purchase, error) {
	existing, err := s.GetPurchase(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateCategory(ctx, id, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}

	s.invalidate(existing.CardID)
	return p, nil
}

// DeletePurchase deletes a purchase after verifying ownership. Every invoice and
// projection it contributed to changes accordingly.
func (s *Service) DeletePurchase(ctx context.Context, id, userID string) error {
	p, err := s.GetPurchase(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	s.invalidate(p.CardID)
	slog.Debug("purchase deleted", "purchase_id", id, "user_id", userID, "card_id", p.CardID)
	return nil
}

func (s *Service) invalidate(cardID string) {
	if s.cache != nil && cardID != "" {
		s.cache.Invalidate(cardID)
	}
}
