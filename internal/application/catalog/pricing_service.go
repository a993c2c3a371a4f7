package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService writes boutique product variants and keeps each product's
// lowest price equal to the cheapest in-stock variant of its SKU. A variant
// write and the product it affects are always committed together.
type PricingService struct {
	variantRepo     catalog.VariantRepository
	txScope         TransactionScope
	policy          catalog.PricingPolicy
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewPricingService creates a new PricingService
func NewPricingService(
	variantRepo catalog.VariantRepository,
	txScope TransactionScope,
	policy catalog.PricingPolicy,
	logger *zap.Logger,
) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		variantRepo: variantRepo,
		txScope:     txScope,
		policy:      policy,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PricingService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// UpsertVariant creates or replaces the variant identified by (sku, boutique, size)
// and lowers the product's lowest price when the variant undercuts it.
func (s *PricingService) UpsertVariant(ctx context.Context, sku string, req UpsertVariantRequest) (*VariantWriteResponse, error) {
	var (
		variant *catalog.BoutiqueProduct
		product *catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindBySKU(ctx, sku)
		if err != nil {
			return err
		}

		exists, err := repos.BoutiqueRepo().ExistsByID(ctx, req.BoutiqueID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("INVALID_INPUT", "Boutique does not exist")
		}

		candidate, err := catalog.NewBoutiqueProduct(product.SKU, req.BoutiqueID, req.Size, req.Price, req.Quantity)
		if err != nil {
			return err
		}
		stored, prior, err := repos.VariantRepo().Upsert(ctx, candidate)
		if err != nil {
			return err
		}
		variant = stored

		var change catalog.VariantChange
		switch {
		case prior != nil:
			change = stored.ChangeFrom(prior)
		case stored.ID == candidate.ID:
			change = stored.CreatedChange()
		default:
			// Inserted by another writer after the locking read, so the values
			// this write replaced are unknown.
			_, err := s.recompute(ctx, repos, product, "upsert_conflict")
			return err
		}
		return s.foldChange(ctx, repos, product, variant, change)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("variant upserted",
		zap.String("sku", variant.SKU),
		zap.String("variant_id", variant.ID.String()),
		zap.String("price", variant.Price.String()),
		zap.Int("quantity", variant.Quantity),
	)
	return &VariantWriteResponse{
		Variant:     ToVariantResponse(variant),
		LowestPrice: product.LowestPrice,
	}, nil
}

// UpdateVariant applies a partial update to a variant. When the variant held
// the product's lowest price and its price changed, the lowest price is derived
// again from the cheapest in-stock variant.
func (s *PricingService) UpdateVariant(ctx context.Context, variantID uuid.UUID, req UpdateVariantRequest) (*VariantWriteResponse, error) {
	patch := catalog.VariantPatch{Price: req.Price, Quantity: req.Quantity}

	var (
		variant *catalog.BoutiqueProduct
		product *catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		variants := repos.VariantRepo()
		variant, err = variants.FindByID(ctx, variantID)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			product, err = repos.ProductRepo().FindBySKU(ctx, variant.SKU)
			return err
		}

		change, err := variant.Apply(patch)
		if err != nil {
			return err
		}
		if err := variants.Save(ctx, variant); err != nil {
			return err
		}

		product, err = repos.ProductRepo().FindBySKU(ctx, variant.SKU)
		if err != nil {
			return err
		}
		return s.foldChange(ctx, repos, product, variant, change)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("variant updated",
		zap.String("sku", variant.SKU),
		zap.String("variant_id", variant.ID.String()),
		zap.String("price", variant.Price.String()),
		zap.Int("quantity", variant.Quantity),
	)
	return &VariantWriteResponse{
		Variant:     ToVariantResponse(variant),
		LowestPrice: product.LowestPrice,
	}, nil
}

// DeleteVariant removes a variant. Removing the variant holding the lowest
// price recomputes it from the remaining stock.
func (s *PricingService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	var sku string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		variants := repos.VariantRepo()
		variant, err := variants.FindByID(ctx, variantID)
		if err != nil {
			return err
		}
		sku = variant.SKU
		if err := variants.Delete(ctx, variant.ID); err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindBySKU(ctx, variant.SKU)
		if err != nil {
			// A variant can outlive its product only through direct data edits.
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if !product.IsLowestPrice(variant.Price) {
			return nil
		}
		_, err = s.recompute(ctx, repos, product, "delete")
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("variant deleted",
		zap.String("sku", sku),
		zap.String("variant_id", variantID.String()),
	)
	return nil
}

// RecomputeLowestPrice derives a product's lowest price from scratch. The
// price is cleared when no variant is in stock.
func (s *PricingService) RecomputeLowestPrice(ctx context.Context, sku string) (*LowestPriceResponse, error) {
	var (
		product *catalog.Product
		changed bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindBySKU(ctx, sku)
		if err != nil {
			return err
		}
		changed, err = s.recompute(ctx, repos, product, "manual")
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("lowest price recomputed",
			zap.String("sku", product.SKU),
			zap.Stringp("lowest_price", decimalStringPtr(product.LowestPrice)),
		)
	}
	return &LowestPriceResponse{
		SKU:         product.SKU,
		LowestPrice: product.LowestPrice,
		Changed:     changed,
	}, nil
}

// LowestPricesBySize returns the cheapest in-stock offer per size of a SKU
func (s *PricingService) LowestPricesBySize(ctx context.Context, sku string) ([]SizePriceResponse, error) {
	prices, err := s.variantRepo.LowestPricesBySize(ctx, sku)
	if err != nil {
		return nil, err
	}
	return ToSizePriceResponses(prices), nil
}

// ListVariants lists every variant of a SKU ordered by price
func (s *PricingService) ListVariants(ctx context.Context, sku string) ([]VariantResponse, error) {
	variants, err := s.variantRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	responses := make([]VariantResponse, len(variants))
	for i := range variants {
		responses[i] = ToVariantResponse(&variants[i])
	}
	return responses, nil
}

// foldChange applies a variant change to the product's lowest price and saves
// the product when the price moved.
func (s *PricingService) foldChange(
	ctx context.Context,
	repos TransactionalRepositories,
	product *catalog.Product,
	variant *catalog.BoutiqueProduct,
	change catalog.VariantChange,
) error {
	recompute := s.policy.NeedsRecompute(product, change)
	changed, err := s.policy.ApplyVariantChange(product, change, func() (*decimal.Decimal, error) {
		return repos.VariantRepo().LowestInStockPrice(ctx, variant.SKU, variant.ID)
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if recompute {
		s.recordRecompute(ctx, "incumbent_change")
	}
	return repos.ProductRepo().SaveLowestPrice(ctx, product.ID, product.LowestPrice)
}

// recompute sets the product's lowest price to the full minimum over its
// in-stock variants and reports whether it changed.
func (s *PricingService) recompute(
	ctx context.Context,
	repos TransactionalRepositories,
	product *catalog.Product,
	reason string,
) (bool, error) {
	lowest, err := repos.VariantRepo().LowestInStockPrice(ctx, product.SKU, uuid.Nil)
	if err != nil {
		return false, err
	}
	if !catalog.ApplyRecompute(product, lowest) {
		return false, nil
	}
	s.recordRecompute(ctx, reason)
	return true, repos.ProductRepo().SaveLowestPrice(ctx, product.ID, product.LowestPrice)
}

func (s *PricingService) recordRecompute(ctx context.Context, reason string) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordPriceRecompute(ctx, reason)
	}
}

func decimalStringPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
