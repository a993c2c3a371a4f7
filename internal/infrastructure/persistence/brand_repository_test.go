package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brandNames(brands []catalog.Brand) []string {
	names := make([]string, len(brands))
	for i, b := range brands {
		names[i] = b.Name
	}
	return names
}

func TestGormBrandRepository(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	acme := f.brand(t, "Acme")
	f.brand(t, "Zeta Works")
	f.brand(t, "Acme_Sport")

	dup, err := catalog.NewBrand("ACME")
	require.NoError(t, err)
	assert.ErrorIs(t, f.brands.Create(ctx, dup), shared.ErrAlreadyExists)

	exists, err := f.brands.ExistsByName(ctx, "aCmE")
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("find all sorted by name", func(t *testing.T) {
		brands, total, err := f.brands.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Acme", "Acme_Sport", "Zeta Works"}, brandNames(brands))
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		brands, total, err := f.brands.FindAll(ctx, shared.Filter{Search: "E_S"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Acme_Sport"}, brandNames(brands))
	})

	t.Run("rename and delete", func(t *testing.T) {
		require.NoError(t, acme.Rename("Acme Labs"))
		require.NoError(t, f.brands.Save(ctx, acme))

		found, err := f.brands.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Labs", found.Name)

		f.product(t, "SKU-1", "Anvil", acme.ID, nil, "")
		count, err := f.brands.CountProducts(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		ghost, err := catalog.NewBrand("Ghost")
		require.NoError(t, err)
		assert.ErrorIs(t, f.brands.Save(ctx, ghost), shared.ErrNotFound)
		assert.ErrorIs(t, f.brands.Delete(ctx, ghost.ID), shared.ErrNotFound)

		exists, err := f.brands.ExistsByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestGormBoutiqueRepository(t *testing.T) {
	repo := NewGormBoutiqueRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Seoul", "Busan"} {
		boutique, err := catalog.NewBoutique(name)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, boutique))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Busan", all[0].Name)

	found, err := repo.FindByID(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Seoul", found.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err := repo.ExistsByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormLikeRepository(t *testing.T) {
	repo := NewGormLikeRepository(newTestDB(t))
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()
	boot, shoe := uuid.New(), uuid.New()

	require.NoError(t, repo.Add(ctx, user, boot))
	require.NoError(t, repo.Add(ctx, user, boot))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Add(ctx, user, shoe))
	require.NoError(t, repo.Add(ctx, other, boot))

	count, err := repo.CountByProduct(ctx, boot)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ids, err := repo.ProductIDsByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{shoe, boot}, ids)

	removed, err := repo.Remove(ctx, user, shoe)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Remove(ctx, user, shoe)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, repo.DeleteByProduct(ctx, boot))
	count, err = repo.CountByProduct(ctx, boot)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.DeleteByUser(ctx, user))
	ids, err = repo.ProductIDsByUser(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormCatalogMetricsProvider(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	variants := NewGormVariantRepository(f.db)

	acme := f.brand(t, "Acme")
	zeta := f.brand(t, "Zeta")
	f.product(t, "SKU-1", "One", acme.ID, nil, "")
	f.product(t, "SKU-2", "Two", acme.ID, nil, "")
	f.product(t, "SKU-3", "Three", zeta.ID, nil, "")

	boutique := uuid.New()
	mustCreateVariant(t, variants, "SKU-1", boutique, "M", "10", 0)
	mustCreateVariant(t, variants, "SKU-1", boutique, "L", "10", 4)
	mustCreateVariant(t, variants, "SKU-2", boutique, "M", "10", 0)

	provider := NewGormCatalogMetricsProvider(f.db)

	outOfStock, err := provider.CountOutOfStockVariants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), outOfStock)

	byBrand, err := provider.CountProductsByBrand(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Acme": 2, "Zeta": 1}, byBrand)
}
