package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser loads the cart of a user. A user without stored lines gets an empty cart.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save replaces the stored lines and total of the cart
	Save(ctx context.Context, cart *Cart) error

	// DeleteByUser removes the cart of a user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists the orders of a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// Create inserts an order and its items
	Create(ctx context.Context, order *Order) error

	// SaveWithLock saves status changes with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error
}
