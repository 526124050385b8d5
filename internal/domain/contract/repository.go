package contract

import "context"

// Repository defines the interface for contract data access
type Repository interface {
	Create(ctx context.Context, c Contract) (*Contract, error)
	GetByID(ctx context.Context, id string) (*Contract, error)
	ListByUserID(ctx context.Context, userID string) ([]Contract, error)
	Delete(ctx context.Context, id string) error
}
