package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBrandService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, newMemStore().BoutiqueRepo(), nil)
		repo.On("ExistsByName", ctx, "Acme").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.Brand")).Return(nil)

		resp, err := svc.Create(ctx, BrandRequest{Name: "  Acme "})
		require.NoError(t, err)
		assert.Equal(t, "Acme", resp.Name)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		repo.On("ExistsByName", ctx, "Acme").Return(true, nil)

		_, err := svc.Create(ctx, BrandRequest{Name: "Acme"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty name", func(t *testing.T) {
		svc := NewBrandService(new(MockBrandRepository), nil, nil)
		_, err := svc.Create(ctx, BrandRequest{Name: "   "})
		assert.Error(t, err)
	})
}

func TestBrandService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("case change skips uniqueness check", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		brand := newTestBrand(t, "acme")
		repo.On("FindByID", ctx, brand.ID).Return(brand, nil)
		repo.On("Save", ctx, brand).Return(nil)

		resp, err := svc.Update(ctx, brand.ID, BrandRequest{Name: "ACME"})
		require.NoError(t, err)
		assert.Equal(t, "ACME", resp.Name)
		repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
	})

	t.Run("taken name", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		brand := newTestBrand(t, "acme")
		repo.On("FindByID", ctx, brand.ID).Return(brand, nil)
		repo.On("ExistsByName", ctx, "Zeta").Return(true, nil)

		_, err := svc.Update(ctx, brand.ID, BrandRequest{Name: "Zeta"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBrandService_Delete(t *testing.T) {
	ctx := context.Background()
	brand := newTestBrand(t, "acme")

	t.Run("brand with products", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		repo.On("FindByID", ctx, brand.ID).Return(brand, nil)
		repo.On("CountProducts", ctx, brand.ID).Return(int64(3), nil)

		err := svc.Delete(ctx, brand.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused brand", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		repo.On("FindByID", ctx, brand.ID).Return(brand, nil)
		repo.On("CountProducts", ctx, brand.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, brand.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, brand.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing brand", func(t *testing.T) {
		repo := new(MockBrandRepository)
		svc := NewBrandService(repo, nil, nil)
		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, missing), shared.ErrNotFound)
	})
}

func TestBrandService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBrandRepository)
	svc := NewBrandService(repo, nil, nil)
	brands := []catalog.Brand{*newTestBrand(t, "Acme"), *newTestBrand(t, "Zeta")}
	repo.On("FindAll", ctx, shared.Filter{Page: 1, PageSize: 20, OrderBy: "name", OrderDir: "asc", Search: "a"}).
		Return(brands, int64(2), nil)

	resp, total, err := svc.List(ctx, BrandListFilter{Search: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, resp, 2)
}

func TestBrandService_Boutiques(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBrandService(nil, store.BoutiqueRepo(), nil)

	created, err := svc.CreateBoutique(ctx, BoutiqueRequest{Name: "North Store"})
	require.NoError(t, err)
	assert.Equal(t, "North Store", created.Name)

	list, err := svc.ListBoutiques(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = svc.CreateBoutique(ctx, BoutiqueRequest{Name: ""})
	assert.Error(t, err)
}
