package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopmall/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles checkout and order fulfilment
type OrderService struct {
	orderRepo       trade.OrderRepository
	userRepo        identity.UserRepository
	txScope         TransactionScope
	idempotency     shared.IdempotencyStore
	idempotencyCfg  shared.IdempotencyConfig
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// OrderServiceDeps holds the collaborators of OrderService
type OrderServiceDeps struct {
	OrderRepo         trade.OrderRepository
	UserRepo          identity.UserRepository
	TxScope           TransactionScope
	IdempotencyStore  shared.IdempotencyStore
	IdempotencyConfig shared.IdempotencyConfig
	Logger            *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(deps OrderServiceDeps) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:      deps.OrderRepo,
		userRepo:       deps.UserRepo,
		txScope:        deps.TxScope,
		idempotency:    deps.IdempotencyStore,
		idempotencyCfg: deps.IdempotencyConfig,
		logger:         logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateOrder checks out the cart of the user. The order insert and the
// cart reset commit in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	key, err := s.reserve(ctx, userID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	order, err := s.checkout(ctx, userID, req.Address)
	if err != nil {
		s.release(ctx, key)
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, order.TotalPrice)
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", order.ItemCount()),
		zap.String("total", order.TotalPrice.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) checkout(ctx context.Context, userID uuid.UUID, address string) (*trade.Order, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		cart, err := repos.CartRepo().FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return shared.NewDomainError("INVALID_STATE", "There is nothing in the cart to order")
		}

		order, err = trade.NewOrderFromCart(trade.Buyer{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		}, address, cart)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}

		cart.Clear()
		return repos.CartRepo().Save(ctx, cart)
	})
	if err != nil {
		s.logger.Warn("checkout failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	return order, nil
}

// reserve claims the idempotency key of the request. It returns the store
// key, or "" when the request carries no key or the store is disabled.
func (s *OrderService) reserve(ctx context.Context, userID uuid.UUID, idempotencyKey string) (string, error) {
	if idempotencyKey == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return "", nil
	}
	key := "order:" + userID.String() + ":" + idempotencyKey
	ttl := s.idempotencyCfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	reserved, err := s.idempotency.Reserve(ctx, key, ttl)
	if err != nil {
		return "", err
	}
	if !reserved {
		s.logger.Info("duplicate order request", zap.String("user_id", userID.String()), zap.String("idempotency_key", idempotencyKey))
		return "", shared.NewDomainError("ALREADY_EXISTS", "This order request was already submitted")
	}
	return key, nil
}

func (s *OrderService) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// GetOrder returns an order to its buyer or to a back-office user
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.BelongsTo(actor.UserID) && !actor.Role.CanManageOrders() {
		// Reported as missing so order ids of other users cannot be discovered
		return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListMyOrders lists the orders of the user, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.PageSize > 100 {
		domainFilter.PageSize = 100
	}

	orders, total, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// AdvanceOrderStatus moves an order forward. Only back-office roles may do this.
func (s *OrderService) AdvanceOrderStatus(ctx context.Context, actor Actor, orderID uuid.UUID, req AdvanceOrderRequest) (*OrderResponse, error) {
	if !actor.Role.CanManageOrders() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can change order status")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status

	if req.Status != nil {
		target := trade.OrderStatus(*req.Status)
		if !target.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown order status")
		}
		err = order.TransitionTo(target, req.TrackingNumber)
	} else {
		err = order.Advance(req.TrackingNumber)
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", order.Status.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}
