package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/shopmall/backend/internal/application/catalog"
	appidentity "github.com/shopmall/backend/internal/application/identity"
	apptrade "github.com/shopmall/backend/internal/application/trade"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_CatalogRollback(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := scope.Catalog().Execute(ctx, func(repos appcatalog.TransactionalRepositories) error {
		women, err := catalog.NewRootCategory("women")
		if err != nil {
			return err
		}
		if err := repos.CategoryRepo().Create(ctx, women); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := NewGormCategoryRepository(db).ExistsByID(ctx, "women")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormTransactionScope_CatalogCommit(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	err := scope.Catalog().Execute(ctx, func(repos appcatalog.TransactionalRepositories) error {
		boutique, err := catalog.NewBoutique("Seoul")
		if err != nil {
			return err
		}
		if err := repos.BoutiqueRepo().Create(ctx, boutique); err != nil {
			return err
		}
		variant, err := catalog.NewBoutiqueProduct("SKU-1", boutique.ID, "M", decimal.NewFromInt(12), 1)
		if err != nil {
			return err
		}
		return repos.VariantRepo().Create(ctx, variant)
	})
	require.NoError(t, err)

	variants, err := NewGormVariantRepository(db).FindBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestGormTransactionScope_IdentitySignUp(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	user, err := identity.NewUser("Kim", "kim01", "kim@example.com", "secret123")
	require.NoError(t, err)

	err = scope.Identity().Execute(ctx, func(repos appidentity.TransactionalRepositories) error {
		if err := repos.UserRepo().Create(ctx, user); err != nil {
			return err
		}
		return repos.CartRepo().Save(ctx, trade.NewCart(user.ID))
	})
	require.NoError(t, err)

	var carts int64
	require.NoError(t, db.Table("carts").Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestGormTransactionScope_TradeCheckoutRollback(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	userID := uuid.New()

	cart := trade.NewCart(userID)
	require.NoError(t, cart.Put(cartLine("SKU-1", "M", "10", 1)))
	require.NoError(t, NewGormCartRepository(db).Save(ctx, cart))

	order := newTestOrder(t, userID)
	err := scope.Trade().Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}
		cart.Clear()
		if err := repos.CartRepo().Save(ctx, cart); err != nil {
			return err
		}
		// Same order twice violates the primary key
		return repos.OrderRepo().Create(ctx, order)
	})
	require.Error(t, err)

	stored, err := NewGormCartRepository(db).FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	_, err = NewGormOrderRepository(db).FindByID(ctx, order.ID)
	assert.Error(t, err)
}
