package persistence

import (
	"context"

	appcatalog "github.com/shopmall/backend/internal/application/catalog"
	appidentity "github.com/shopmall/backend/internal/application/identity"
	apptrade "github.com/shopmall/backend/internal/application/trade"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application transaction scopes using
// GORM transactions. Every repository handed to fn shares one transaction;
// an error from fn rolls it back and is returned unchanged.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Catalog returns the scope used by the catalog services.
func (s *GormTransactionScope) Catalog() appcatalog.TransactionScope {
	return catalogScope{s}
}

// Identity returns the scope used by the account services.
func (s *GormTransactionScope) Identity() appidentity.TransactionScope {
	return identityScope{s}
}

// Trade returns the scope used by the cart and order services.
func (s *GormTransactionScope) Trade() apptrade.TransactionScope {
	return tradeScope{s}
}

type catalogScope struct{ s *GormTransactionScope }

func (c catalogScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type identityScope struct{ s *GormTransactionScope }

func (c identityScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type tradeScope struct{ s *GormTransactionScope }

func (c tradeScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CategoryRepo returns the category repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// VariantRepo returns the boutique product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) VariantRepo() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// BoutiqueRepo returns the boutique repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BoutiqueRepo() catalog.BoutiqueRepository {
	return NewGormBoutiqueRepository(r.tx)
}

// LikeRepo returns the like repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LikeRepo() catalog.LikeRepository {
	return NewGormLikeRepository(r.tx)
}

// UserRepo returns the user repository scoped to the current transaction.
func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// CartRepo returns the cart repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CartRepo() trade.CartRepository {
	return NewGormCartRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

var (
	_ appcatalog.TransactionScope           = catalogScope{}
	_ appidentity.TransactionScope          = identityScope{}
	_ apptrade.TransactionScope             = tradeScope{}
	_ appcatalog.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ appidentity.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ apptrade.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
)
