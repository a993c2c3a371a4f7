package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// CartService manages the shopping cart of a user
type CartService struct {
	cartRepo    trade.CartRepository
	variantRepo catalog.VariantRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo trade.CartRepository, variantRepo catalog.VariantRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		logger:      logger,
	}
}

// GetCart returns the cart of the user
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// PutInCart adds a boutique variant to the cart at its current price
func (s *CartService) PutInCart(ctx context.Context, userID uuid.UUID, req PutInCartRequest) (*CartResponse, error) {
	variant, err := s.variantRepo.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.Put(trade.CartItem{
		VariantID: variant.ID,
		SKU:       variant.SKU,
		Size:      variant.Size,
		Quantity:  req.Quantity,
		UnitPrice: variant.Price,
	}); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("cart item added",
		zap.String("user_id", userID.String()),
		zap.String("variant_id", variant.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.String("total", cart.TotalPrice.String()),
	)
	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveFromCart removes the line of a variant from the cart
func (s *CartService) RemoveFromCart(ctx context.Context, userID, variantID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := cart.Remove(variantID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("cart item removed",
		zap.String("user_id", userID.String()),
		zap.String("variant_id", variantID.String()),
	)
	response := ToCartResponse(cart)
	return &response, nil
}
