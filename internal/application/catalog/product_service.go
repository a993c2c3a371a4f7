package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	variantRepo  catalog.VariantRepository
	likeRepo     catalog.LikeRepository
	categories   *CategoryService
	txScope      TransactionScope
	logger       *zap.Logger
}

// ProductServiceDeps groups the collaborators of ProductService
type ProductServiceDeps struct {
	ProductRepo     catalog.ProductRepository
	CategoryRepo    catalog.CategoryRepository
	BrandRepo       catalog.BrandRepository
	VariantRepo     catalog.VariantRepository
	LikeRepo        catalog.LikeRepository
	CategoryService *CategoryService
	TxScope         TransactionScope
	Logger          *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(deps ProductServiceDeps) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  deps.ProductRepo,
		categoryRepo: deps.CategoryRepo,
		brandRepo:    deps.BrandRepo,
		variantRepo:  deps.VariantRepo,
		likeRepo:     deps.LikeRepo,
		categories:   deps.CategoryService,
		txScope:      deps.TxScope,
		logger:       logger,
	}
}

// Create creates a new product. Its lowest price starts unset.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.TrimSpace(req.SKU)
	exists, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	category, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	brand, err := s.resolveBrand(ctx, req.BrandID)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(sku, req.Name, req.Description, brand.ID, &category.Key)
	if err != nil {
		return nil, err
	}
	if req.Thumbnail != "" || len(req.Images) > 0 {
		product.SetMedia(req.Thumbnail, req.Images)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("sku", product.SKU),
		zap.String("product_id", product.ID.String()),
	)
	response := s.toResponse(product, brand, category)
	return &response, nil
}

// GetByID retrieves a product with its per-size prices and like count
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, product)
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, product)
}

// Update updates name, description, media, brand or category. The lowest
// price is never touched here.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Thumbnail != nil || req.Images != nil {
		thumbnail := product.Thumbnail
		if req.Thumbnail != nil {
			thumbnail = *req.Thumbnail
		}
		images := product.Images
		if req.Images != nil {
			images = req.Images
		}
		product.SetMedia(thumbnail, images)
	}

	var brand *catalog.Brand
	if req.BrandID != nil {
		brand, err = s.resolveBrand(ctx, *req.BrandID)
		if err != nil {
			return nil, err
		}
		if err := product.SetBrand(brand.ID); err != nil {
			return nil, err
		}
	}

	var category *catalog.Category
	if req.CategoryID != nil {
		category, err = s.resolveCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.SetCategory(&category.Key)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID.String()))
	response := s.toResponse(product, brand, category)
	return &response, nil
}

// Delete removes a product together with its variants and likes
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	var sku string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		sku = product.SKU
		if _, err := repos.VariantRepo().DeleteBySKU(ctx, product.SKU); err != nil {
			return err
		}
		if err := repos.LikeRepo().DeleteByProduct(ctx, product.ID); err != nil {
			return err
		}
		return repos.ProductRepo().Delete(ctx, product.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.String("sku", sku),
		zap.String("product_id", productID.String()),
	)
	return nil
}

// Search finds products with the enumerated search options. A category
// criterion matches the category and everything below it.
func (s *ProductService) Search(ctx context.Context, req SearchProductsRequest) ([]ProductResponse, int64, error) {
	search := catalog.ProductSearch{
		Name:       strings.TrimSpace(req.Name),
		BrandNames: splitListParam(req.Brands),
		LessPrice:  req.LessPrice,
		MorePrice:  req.MorePrice,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	search.Normalize()

	if ids := splitListParam(req.Categories); len(ids) > 0 {
		keys, err := s.categories.ResolveSubtreeKeys(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		search.WithCategoryKeys(keys)
	}

	products, total, err := s.productRepo.Search(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Like records that the user likes the product. Liking twice is a no-op.
func (s *ProductService) Like(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.likeRepo.Add(ctx, userID, productID)
}

// Unlike removes the user's like of the product
func (s *ProductService) Unlike(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	removed, err := s.likeRepo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return shared.NewDomainError("NOT_FOUND", "Product is not liked")
	}
	return nil
}

// LikedProductIDs lists the products a user likes
func (s *ProductService) LikedProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.likeRepo.ProductIDsByUser(ctx, userID)
}

func (s *ProductService) resolveCategory(ctx context.Context, id string) (*catalog.Category, error) {
	normalized, err := catalog.NormalizeCategoryID(id)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid category")
		}
		return nil, err
	}
	return category, nil
}

func (s *ProductService) resolveBrand(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid brand")
		}
		return nil, err
	}
	return brand, nil
}

func (s *ProductService) toDetail(ctx context.Context, product *catalog.Product) (*ProductDetailResponse, error) {
	var brand *catalog.Brand
	if b, err := s.brandRepo.FindByID(ctx, product.BrandID); err == nil {
		brand = b
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var category *catalog.Category
	if product.CategoryKey != nil {
		if c, err := s.categoryRepo.FindByKey(ctx, *product.CategoryKey); err == nil {
			category = c
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	prices, err := s.variantRepo.LowestPricesBySize(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.CountByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return &ProductDetailResponse{
		ProductResponse: s.toResponse(product, brand, category),
		SizePrices:      ToSizePriceResponses(prices),
		Likes:           likes,
	}, nil
}

func (s *ProductService) toResponse(product *catalog.Product, brand *catalog.Brand, category *catalog.Category) ProductResponse {
	response := ToProductResponse(product)
	if brand != nil {
		response.BrandName = brand.Name
	}
	if category != nil {
		response.CategoryID = category.ID
	}
	return response
}

// splitListParam flattens repeated and comma separated query values
func splitListParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
