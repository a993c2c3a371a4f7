package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BrandService handles brand and boutique management
type BrandService struct {
	brandRepo    catalog.BrandRepository
	boutiqueRepo catalog.BoutiqueRepository
	logger       *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, boutiqueRepo catalog.BoutiqueRepository, logger *zap.Logger) *BrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrandService{
		brandRepo:    brandRepo,
		boutiqueRepo: boutiqueRepo,
		logger:       logger,
	}
}

// Create creates a new brand. Brand names are unique regardless of case.
func (s *BrandService) Create(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	brand, err := catalog.NewBrand(req.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.brandRepo.ExistsByName(ctx, brand.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}

	s.logger.Info("brand created",
		zap.String("brand_id", brand.ID.String()),
		zap.String("name", brand.Name),
	)
	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List retrieves brands ordered by name
func (s *BrandService) List(ctx context.Context, filter BrandListFilter) ([]BrandResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	brands, total, err := s.brandRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BrandResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}
	return responses, total, nil
}

// Update renames a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req BrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := brand.FoldedName()
	if err := brand.Rename(req.Name); err != nil {
		return nil, err
	}
	if brand.FoldedName() != previous {
		exists, err := s.brandRepo.ExistsByName(ctx, brand.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
		}
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	s.logger.Info("brand updated",
		zap.String("brand_id", brand.ID.String()),
		zap.String("name", brand.Name),
	)
	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete deletes a brand that no product is sold under
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.brandRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a brand that still has products")
	}
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("brand deleted", zap.String("brand_id", id.String()))
	return nil
}

// CreateBoutique creates a new boutique
func (s *BrandService) CreateBoutique(ctx context.Context, req BoutiqueRequest) (*BoutiqueResponse, error) {
	boutique, err := catalog.NewBoutique(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.boutiqueRepo.Create(ctx, boutique); err != nil {
		return nil, err
	}
	s.logger.Info("boutique created",
		zap.String("boutique_id", boutique.ID.String()),
		zap.String("name", boutique.Name),
	)
	response := ToBoutiqueResponse(boutique)
	return &response, nil
}

// ListBoutiques retrieves every boutique
func (s *BrandService) ListBoutiques(ctx context.Context) ([]BoutiqueResponse, error) {
	boutiques, err := s.boutiqueRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BoutiqueResponse, len(boutiques))
	for i := range boutiques {
		responses[i] = ToBoutiqueResponse(&boutiques[i])
	}
	return responses, nil
}
