package purchase

import "context"

// Repository defines the interface for purchase data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create persists a fully built purchase, including its stored installment amount
	Create(ctx context.Context, p Purchase) (*Purchase, error)

	// GetByID retrieves a purchase by its ID
	GetByID(ctx context.Context, id string) (*Purchase, error)

	// List retrieves the purchases matching the filter, oldest first
	List(ctx context.Context, filter ListFilter) ([]Purchase, error)

	// ListByCardID retrieves every purchase of a card, oldest first
	ListByCardID(ctx context.Context, cardID string) ([]Purchase, error)

	// UpdateCategory changes the only mutable field of a purchase
	UpdateCategory(ctx context.Context, id, category string) (*Purchase, error)

	// Delete removes a purchase and with it every installment attribution
	Delete(ctx context.Context, id string) error
}
