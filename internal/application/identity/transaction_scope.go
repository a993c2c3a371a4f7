package identity

import (
	"context"

	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories that
// hold data owned by a user account.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the user owned repositories within a transaction.
// Creating or deleting an account touches the user row, its cart and its likes together.
type TransactionalRepositories interface {
	// UserRepo returns the user repository scoped to the current transaction
	UserRepo() identity.UserRepository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() trade.CartRepository
	// LikeRepo returns the like repository scoped to the current transaction
	LikeRepo() catalog.LikeRepository
}
