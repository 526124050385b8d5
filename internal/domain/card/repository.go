package card

import "context"

// Repository defines the interface for card data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create creates a new card
	Create(ctx context.Context, c Card) (*Card, error)

	// GetByID retrieves a card by its ID
	GetByID(ctx context.Context, id string) (*Card, error)

	// ListByUserID retrieves all cards of a user, active ones first
	ListByUserID(ctx context.Context, userID string) ([]*Card, error)

	// Update persists the mutable fields of a card
	Update(ctx context.Context, c Card) (*Card, error)

	// Delete removes a card and, through the schema, its purchases
	Delete(ctx context.Context, id string) error

	// ListOwnersWithActiveCards returns the distinct users that own at least one active card
	ListOwnersWithActiveCards(ctx context.Context) ([]string, error)
}
