package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustCreateVariant(t *testing.T, repo *GormVariantRepository, sku string, boutiqueID uuid.UUID, size, price string, quantity int) *catalog.BoutiqueProduct {
	t.Helper()
	variant, err := catalog.NewBoutiqueProduct(sku, boutiqueID, size, decimal.RequireFromString(price), quantity)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), variant))
	return variant
}

func TestGormVariantRepository_LowestPrices(t *testing.T) {
	repo := NewGormVariantRepository(newTestDB(t))
	ctx := context.Background()
	north, south := uuid.New(), uuid.New()

	cheapest := mustCreateVariant(t, repo, "SKU-1", north, "250", "80.00", 3)
	mustCreateVariant(t, repo, "SKU-1", south, "250", "95.00", 1)
	mustCreateVariant(t, repo, "SKU-1", north, "260", "70.00", 0)
	mustCreateVariant(t, repo, "SKU-1", south, "260", "99.00", 2)
	mustCreateVariant(t, repo, "SKU-2", north, "250", "10.00", 5)

	lowest, err := repo.LowestInStockPrice(ctx, "SKU-1", uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, lowest)
	assert.True(t, lowest.Equal(decimal.RequireFromString("80")), lowest.String())

	lowest, err = repo.LowestInStockPrice(ctx, "SKU-1", cheapest.ID)
	require.NoError(t, err)
	require.NotNil(t, lowest)
	assert.True(t, lowest.Equal(decimal.RequireFromString("95")), lowest.String())

	lowest, err = repo.LowestInStockPrice(ctx, "SKU-404", uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, lowest)

	bySize, err := repo.LowestPricesBySize(ctx, "SKU-1")
	require.NoError(t, err)
	require.Len(t, bySize, 2)
	assert.Equal(t, "250", bySize[0].Size)
	assert.True(t, bySize[0].Price.Equal(decimal.RequireFromString("80")))
	assert.Equal(t, "260", bySize[1].Size)
	assert.True(t, bySize[1].Price.Equal(decimal.RequireFromString("99")))
}

func TestGormVariantRepository_CRUD(t *testing.T) {
	repo := NewGormVariantRepository(newTestDB(t))
	ctx := context.Background()
	boutique := uuid.New()

	variant := mustCreateVariant(t, repo, "SKU-1", boutique, "M", "40.00", 2)
	mustCreateVariant(t, repo, "SKU-1", boutique, "L", "30.00", 2)

	dup, err := catalog.NewBoutiqueProduct("SKU-1", boutique, "M", decimal.NewFromInt(1), 1)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)

	found, err := repo.FindByNaturalKey(ctx, "SKU-1", boutique, "M")
	require.NoError(t, err)
	assert.Equal(t, variant.ID, found.ID)

	_, err = repo.FindByNaturalKey(ctx, "SKU-1", boutique, "XS")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = variant.Replace(decimal.RequireFromString("25.00"), 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, variant))

	stored, err := repo.FindByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("25")))

	all, err := repo.FindBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "M", all[0].Size)

	require.NoError(t, repo.Delete(ctx, variant.ID))
	assert.ErrorIs(t, repo.Delete(ctx, variant.ID), shared.ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, variant), shared.ErrNotFound)

	removed, err := repo.DeleteBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestGormVariantRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormVariantRepository(db)
	ctx := context.Background()
	boutique := uuid.New()

	first, err := catalog.NewBoutiqueProduct("SKU-1", boutique, "250", decimal.RequireFromString("80"), 3)
	require.NoError(t, err)
	stored, prior, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, prior)
	assert.Equal(t, first.ID, stored.ID)

	second, err := catalog.NewBoutiqueProduct("SKU-1", boutique, "250", decimal.RequireFromString("65"), 0)
	require.NoError(t, err)
	stored, prior, err = repo.Upsert(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.Equal(t, first.ID, stored.ID, "the existing row keeps its id")
	assert.True(t, prior.Price.Equal(decimal.RequireFromString("80")))
	assert.Equal(t, 3, prior.Quantity)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("65")))
	assert.Equal(t, 0, stored.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.BoutiqueProductModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormVariantRepository_UpsertOverwritesRowInsertedAfterRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormVariantRepository(db)
	ctx := context.Background()
	boutique := uuid.New()

	racer, err := catalog.NewBoutiqueProduct("SKU-1", boutique, "250", decimal.RequireFromString("10"), 5)
	require.NoError(t, err)
	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*models.BoutiqueProductModel); !ok || fired {
			return
		}
		fired = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(models.BoutiqueProductModelFromDomain(racer)).Error)
	}))

	mine, err := catalog.NewBoutiqueProduct("SKU-1", boutique, "250", decimal.RequireFromString("40"), 2)
	require.NoError(t, err)
	stored, prior, err := repo.Upsert(ctx, mine)
	require.NoError(t, err)
	require.True(t, fired)
	assert.Nil(t, prior, "the other row was not visible to the read")
	assert.Equal(t, racer.ID, stored.ID)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, 2, stored.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.BoutiqueProductModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
