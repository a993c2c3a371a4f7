package trade

import (
	"context"

	"github.com/shopmall/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to trade repositories.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the trade repositories within a transaction.
// Checkout inserts the order and empties the cart; both writes commit together.
type TransactionalRepositories interface {
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() trade.CartRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
}
