package forecast

import (
	"context"
	"errors"
	"fmt"

	"carteira/internal/domain/contract"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/purchase"

	"github.com/shopspring/decimal"
)

const (
	DefaultMonthsAhead = 6
	MaxMonthsAhead     = 36
)

var ErrInvalidHorizon = fmt.Errorf("months ahead must be between 0 and %d", MaxMonthsAhead)

// PurchaseLister loads a user's purchases and standalone plans.
type PurchaseLister interface {
	List(ctx context.Context, filter purchase.ListFilter) ([]purchase.Purchase, error)
}

// ContractLister loads a user's recurring contracts.
type ContractLister interface {
	ListByUserID(ctx context.Context, userID string) ([]contract.Contract, error)
}

// Projection is a multi-month income and expense forecast.
type Projection struct {
	Start                 installment.Month          `json:"start"`
	MonthsAhead           int                        `json:"monthsAhead"`
	ContractsMonthlyTotal decimal.Decimal            `json:"contractsMonthlyTotal"`
	Months                []installment.MonthSummary `json:"months"`
}

// Service projects a user's balances over the coming months.
type Service struct {
	purchases PurchaseLister
	contracts ContractLister
	projector installment.Projector
}

// NewService creates a new forecast service
func NewService(purchases PurchaseLister, contracts ContractLister, projector installment.Projector) *Service {
	return &Service{purchases: purchases, contracts: contracts, projector: projector}
}

// Project returns monthsAhead+1 month summaries starting at start. Contracts charged in
// the start month are added to every month's expenses.
func (s *Service) Project(ctx context.Context, userID string, monthsAhead int, start installment.Month) (*Projection, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if monthsAhead < 0 || monthsAhead > MaxMonthsAhead {
		return nil, ErrInvalidHorizon
	}

	purchases, err := s.purchases.List(ctx, purchase.ListFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	contracts, err := s.contracts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}

	contractsTotal := contract.MonthlyTotal(contracts, start)

	return &Projection{
		Start:                 start,
		MonthsAhead:           monthsAhead,
		ContractsMonthlyTotal: contractsTotal,
		Months:                s.projector.Projection(purchases, contractsTotal, monthsAhead, start),
	}, nil
}
