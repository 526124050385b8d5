package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains the business logic for contract operations
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new contract service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateContract creates a new active contract with business validation
func (s *Service) CreateContract(ctx context.Context, params CreateParams) (*Contract, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Contract{
		ID:            uuid.NewString(),
		UserID:        params.UserID,
		Description:   strings.TrimSpace(params.Description),
		MonthlyAmount: params.MonthlyAmount,
		Category:      strings.TrimSpace(params.Category),
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// ListContracts retrieves all contracts of a user
func (s *Service) ListContracts(ctx context.Context, userID string) ([]Contract, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	return s.repo.ListByUserID(ctx, userID)
}

// DeleteContract deletes a contract after verifying ownership
func (s *Service) DeleteContract(ctx context.Context, id, userID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrContractNotFound) {
			return ErrContractNotFound
		}
		return err
	}

	if c.UserID != userID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
