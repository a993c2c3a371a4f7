package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/trade"
)

// memStore keeps carts and orders in maps. Execute snapshots both maps and
// restores them when the function fails, like a rolled back transaction.
type memStore struct {
	carts     map[uuid.UUID]trade.Cart
	orders    map[uuid.UUID]trade.Order
	commits   int
	rollbacks int

	failOrderCreate error
	failCartSave    error
}

func newMemStore() *memStore {
	return &memStore{
		carts:  make(map[uuid.UUID]trade.Cart),
		orders: make(map[uuid.UUID]trade.Order),
	}
}

func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	carts := make(map[uuid.UUID]trade.Cart, len(s.carts))
	for k, v := range s.carts {
		carts[k] = copyCart(v)
	}
	orders := make(map[uuid.UUID]trade.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}

	if err := fn(s); err != nil {
		s.carts, s.orders = carts, orders
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) CartRepo() trade.CartRepository   { return memCartRepo{s} }
func (s *memStore) OrderRepo() trade.OrderRepository { return memOrderRepo{s} }

func copyCart(c trade.Cart) trade.Cart {
	c.Items = append([]trade.CartItem(nil), c.Items...)
	return c
}

type memCartRepo struct{ s *memStore }

func (r memCartRepo) FindByUser(_ context.Context, userID uuid.UUID) (*trade.Cart, error) {
	cart, ok := r.s.carts[userID]
	if !ok {
		return trade.NewCart(userID), nil
	}
	c := copyCart(cart)
	return &c, nil
}

func (r memCartRepo) Save(_ context.Context, cart *trade.Cart) error {
	if r.s.failCartSave != nil {
		return r.s.failCartSave
	}
	r.s.carts[cart.UserID] = copyCart(*cart)
	return nil
}

func (r memCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	delete(r.s.carts, userID)
	return nil
}

type memOrderRepo struct{ s *memStore }

func (r memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Order, error) {
	order, ok := r.s.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &order, nil
}

func (r memOrderRepo) FindByUser(_ context.Context, userID uuid.UUID, _ shared.Filter) ([]trade.Order, int64, error) {
	var out []trade.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r memOrderRepo) Create(_ context.Context, order *trade.Order) error {
	if r.s.failOrderCreate != nil {
		return r.s.failOrderCreate
	}
	r.s.orders[order.ID] = *order
	return nil
}

func (r memOrderRepo) SaveWithLock(_ context.Context, order *trade.Order) error {
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != order.Version {
		return shared.ErrConcurrencyConflict
	}
	order.Version++
	r.s.orders[order.ID] = *order
	return nil
}

// stubVariantRepo serves variants from a map; other methods are not used by trade
type stubVariantRepo struct {
	catalog.VariantRepository
	variants map[uuid.UUID]catalog.BoutiqueProduct
}

func (r stubVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.BoutiqueProduct, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Variant not found")
	}
	return &v, nil
}

// stubUserRepo serves users from a map; other methods are not used by trade
type stubUserRepo struct {
	identity.UserRepository
	users map[uuid.UUID]*identity.User
	err   error
}

func (r stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

var errStoreDown = errors.New("store down")
