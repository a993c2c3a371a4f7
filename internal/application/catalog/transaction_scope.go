package catalog

import (
	"context"

	"github.com/shopmall/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back and the
	// error is returned unchanged. There are no retries.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all catalog repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - CategoryRepo: categories form one forest; a move or rename rewrites many rows and
//     must see its own writes.
//   - ProductRepo and VariantRepo: the product's lowest price is derived from its
//     variants, so both are always written in the same transaction.
type TransactionalRepositories interface {
	// CategoryRepo returns the category repository scoped to the current transaction
	CategoryRepo() catalog.CategoryRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// VariantRepo returns the boutique product repository scoped to the current transaction
	VariantRepo() catalog.VariantRepository
	// BoutiqueRepo returns the boutique repository scoped to the current transaction
	BoutiqueRepo() catalog.BoutiqueRepository
	// LikeRepo returns the like repository scoped to the current transaction
	LikeRepo() catalog.LikeRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	variantRepo  catalog.VariantRepository
	boutiqueRepo catalog.BoutiqueRepository
	likeRepo     catalog.LikeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	variantRepo catalog.VariantRepository,
	boutiqueRepo catalog.BoutiqueRepository,
	likeRepo catalog.LikeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		boutiqueRepo: boutiqueRepo,
		likeRepo:     likeRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CategoryRepo returns the category repository.
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository {
	return s.categoryRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// VariantRepo returns the boutique product repository.
func (s *NoOpTransactionScope) VariantRepo() catalog.VariantRepository {
	return s.variantRepo
}

// BoutiqueRepo returns the boutique repository.
func (s *NoOpTransactionScope) BoutiqueRepo() catalog.BoutiqueRepository {
	return s.boutiqueRepo
}

// LikeRepo returns the like repository.
func (s *NoOpTransactionScope) LikeRepo() catalog.LikeRepository {
	return s.likeRepo
}

// Ensure NoOpTransactionScope implements TransactionScope
var _ TransactionScope = (*NoOpTransactionScope)(nil)

// Ensure NoOpTransactionScope implements TransactionalRepositories
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
