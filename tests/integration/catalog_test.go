package integration

import (
	"context"
	"testing"

	appcatalog "github.com/shopmall/backend/internal/application/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func pathsByID(t *testing.T, s *shop) map[string]string {
	t.Helper()
	all, err := s.categories.List(context.Background())
	require.NoError(t, err)
	paths := make(map[string]string, len(all))
	for _, c := range all {
		paths[c.ID] = c.Path
	}
	return paths
}

func TestCategoryTree_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	s := newShop(t, tdb, nil)
	ctx := context.Background()

	for _, req := range []appcatalog.CreateCategoryRequest{
		{ID: "men"},
		{ID: "women"},
		{ID: "shirts", ParentID: strPtr("men")},
		{ID: "formal", ParentID: strPtr("shirts")},
	} {
		_, err := s.categories.Create(ctx, req)
		require.NoError(t, err, req.ID)
	}

	t.Run("paths are materialized", func(t *testing.T) {
		assert.Equal(t, map[string]string{
			"men":    ",",
			"women":  ",",
			"shirts": ",men,",
			"formal": ",men,shirts,",
		}, pathsByID(t, s))
	})

	t.Run("unknown parent and duplicate id are rejected", func(t *testing.T) {
		_, err := s.categories.Create(ctx, appcatalog.CreateCategoryRequest{ID: "kids", ParentID: strPtr("nope")})
		assert.ErrorIs(t, err, shared.ErrInvalidParent)

		_, err = s.categories.Create(ctx, appcatalog.CreateCategoryRequest{ID: "men"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("move into own subtree leaves the tree untouched", func(t *testing.T) {
		before := pathsByID(t, s)
		_, err := s.categories.Move(ctx, "formal", "men")
		assert.ErrorIs(t, err, shared.ErrCircularReference)
		assert.Equal(t, before, pathsByID(t, s))
	})

	t.Run("move rebases the subtree", func(t *testing.T) {
		moved, err := s.categories.Move(ctx, "women", "shirts")
		require.NoError(t, err)
		assert.Equal(t, ",women,", moved.Category.Path)
		assert.Equal(t, 1, moved.DescendantsUpdated)

		paths := pathsByID(t, s)
		assert.Equal(t, ",women,shirts,", paths["formal"])

		children, err := s.categories.FindChildren(ctx, ",women,")
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, "shirts", children[0].ID)
	})

	t.Run("rename rewrites descendant segments and keeps the key", func(t *testing.T) {
		before, err := s.categories.GetByID(ctx, "women")
		require.NoError(t, err)

		renamed, err := s.categories.Rename(ctx, "women", appcatalog.RenameCategoryRequest{ID: "ladies"})
		require.NoError(t, err)
		assert.Equal(t, before.Key, renamed.Category.Key)
		assert.Equal(t, "women", renamed.PreviousID)
		assert.Equal(t, 2, renamed.DescendantsUpdated)

		paths := pathsByID(t, s)
		assert.Equal(t, ",ladies,", paths["shirts"])
		assert.Equal(t, ",ladies,shirts,", paths["formal"])
		_, err = s.categories.GetByID(ctx, "women")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete removes the subtree and detaches products", func(t *testing.T) {
		brand, err := s.brands.Create(ctx, appcatalog.BrandRequest{Name: "Acme"})
		require.NoError(t, err)
		_, err = s.products.Create(ctx, appcatalog.CreateProductRequest{
			SKU: "TEE-1", Name: "Formal tee", BrandID: brand.ID, CategoryID: "formal",
		})
		require.NoError(t, err)

		deleted, err := s.categories.Delete(ctx, "ladies")
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted.CategoriesDeleted)
		assert.Equal(t, int64(1), deleted.ProductsDetached)

		assert.Equal(t, map[string]string{"men": ","}, pathsByID(t, s))
		product, err := s.products.GetBySKU(ctx, "TEE-1")
		require.NoError(t, err)
		assert.Nil(t, product.CategoryKey)
	})
}

func TestLowestPrice_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	s := newShop(t, tdb, nil)
	ctx := context.Background()

	_, err := s.categories.Create(ctx, appcatalog.CreateCategoryRequest{ID: "shoes"})
	require.NoError(t, err)
	brand, err := s.brands.Create(ctx, appcatalog.BrandRequest{Name: "Stride"})
	require.NoError(t, err)
	boutique, err := s.brands.CreateBoutique(ctx, appcatalog.BoutiqueRequest{Name: "Downtown"})
	require.NoError(t, err)
	_, err = s.products.Create(ctx, appcatalog.CreateProductRequest{
		SKU: "RUN-1", Name: "Runner", BrandID: brand.ID, CategoryID: "shoes",
	})
	require.NoError(t, err)

	upsert := func(size, price string, qty int) *appcatalog.VariantWriteResponse {
		t.Helper()
		resp, err := s.pricing.UpsertVariant(ctx, "RUN-1", appcatalog.UpsertVariantRequest{
			BoutiqueID: boutique.ID,
			Size:       size,
			Price:      decimal.RequireFromString(price),
			Quantity:   qty,
		})
		require.NoError(t, err)
		return resp
	}
	lowest := func() *decimal.Decimal {
		t.Helper()
		p, err := s.products.GetBySKU(ctx, "RUN-1")
		require.NoError(t, err)
		return p.LowestPrice
	}

	upsert("42", "120.50", 3)
	cheap := upsert("43", "99.99", 1)
	require.NotNil(t, lowest())
	assert.True(t, decimal.RequireFromString("99.99").Equal(*lowest()))

	t.Run("stockout of the cheapest variant falls back to the next", func(t *testing.T) {
		zero := 0
		_, err := s.pricing.UpdateVariant(ctx, cheap.Variant.ID, appcatalog.UpdateVariantRequest{Quantity: &zero})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("120.50").Equal(*lowest()))
	})

	t.Run("size prices only list stocked sizes", func(t *testing.T) {
		sizes, err := s.pricing.LowestPricesBySize(ctx, "RUN-1")
		require.NoError(t, err)
		require.Len(t, sizes, 1)
		assert.Equal(t, "42", sizes[0].Size)
	})

	t.Run("price filter uses the stored lowest price", func(t *testing.T) {
		less := decimal.RequireFromString("121")
		found, total, err := s.products.Search(ctx, appcatalog.SearchProductsRequest{LessPrice: &less})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)

		less = decimal.RequireFromString("100")
		_, total, err = s.products.Search(ctx, appcatalog.SearchProductsRequest{LessPrice: &less})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("deleting the last stocked variant clears the price", func(t *testing.T) {
		variants, err := s.pricing.ListVariants(ctx, "RUN-1")
		require.NoError(t, err)
		for _, v := range variants {
			require.NoError(t, s.pricing.DeleteVariant(ctx, v.ID))
		}
		assert.Nil(t, lowest())

		recomputed, err := s.pricing.RecomputeLowestPrice(ctx, "RUN-1")
		require.NoError(t, err)
		assert.False(t, recomputed.Changed)
	})
}
