package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory catalog store whose transaction scope snapshots
// every table and restores it when the transaction function fails.
type memStore struct {
	categories map[uuid.UUID]catalog.Category
	products   map[uuid.UUID]catalog.Product
	variants   map[uuid.UUID]catalog.BoutiqueProduct
	boutiques  map[uuid.UUID]catalog.Boutique
	likes      map[[2]uuid.UUID]struct{}

	// failCategorySave lets a test abort a transaction midway
	failCategorySave func(c *catalog.Category) error
	// beforeUpsertWrite runs between the read and the write of a variant upsert
	beforeUpsertWrite func(candidate catalog.BoutiqueProduct)

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[uuid.UUID]catalog.Category),
		products:   make(map[uuid.UUID]catalog.Product),
		variants:   make(map[uuid.UUID]catalog.BoutiqueProduct),
		boutiques:  make(map[uuid.UUID]catalog.Boutique),
		likes:      make(map[[2]uuid.UUID]struct{}),
	}
}

type memSnapshot struct {
	categories map[uuid.UUID]catalog.Category
	products   map[uuid.UUID]catalog.Product
	variants   map[uuid.UUID]catalog.BoutiqueProduct
	boutiques  map[uuid.UUID]catalog.Boutique
	likes      map[[2]uuid.UUID]struct{}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		categories: cloneMap(s.categories),
		products:   cloneMap(s.products),
		variants:   cloneMap(s.variants),
		boutiques:  cloneMap(s.boutiques),
		likes:      cloneMap(s.likes),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.categories = snap.categories
	s.products = snap.products
	s.variants = snap.variants
	s.boutiques = snap.boutiques
	s.likes = snap.likes
}

// Execute implements TransactionScope
func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) CategoryRepo() catalog.CategoryRepository { return memCategoryRepo{s} }
func (s *memStore) ProductRepo() catalog.ProductRepository   { return memProductRepo{s} }
func (s *memStore) VariantRepo() catalog.VariantRepository   { return memVariantRepo{s} }
func (s *memStore) BoutiqueRepo() catalog.BoutiqueRepository { return memBoutiqueRepo{s} }
func (s *memStore) LikeRepo() catalog.LikeRepository         { return memLikeRepo{s} }

func (s *memStore) categoryByID(id string) (catalog.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return catalog.Category{}, false
}

func (s *memStore) paths() map[string]string {
	out := make(map[string]string, len(s.categories))
	for _, c := range s.categories {
		out[c.ID] = c.Path
	}
	return out
}

// =============================================================================
// Categories
// =============================================================================

type memCategoryRepo struct{ s *memStore }

func (r memCategoryRepo) FindByID(_ context.Context, id string) (*catalog.Category, error) {
	c, ok := r.s.categoryByID(id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r memCategoryRepo) FindByKey(_ context.Context, key uuid.UUID) (*catalog.Category, error) {
	c, ok := r.s.categories[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r memCategoryRepo) FindAll(_ context.Context) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memCategoryRepo) FindChildren(_ context.Context, path string) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0)
	for _, c := range r.s.categories {
		if c.Path == path {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCategoryRepo) FindDescendants(_ context.Context, id string) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0)
	for _, c := range r.s.categories {
		if catalog.PathHasSegment(c.Path, id) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path+out[i].ID < out[j].Path+out[j].ID })
	return out, nil
}

func (r memCategoryRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.s.categoryByID(id)
	return ok, nil
}

func (r memCategoryRepo) Create(_ context.Context, category *catalog.Category) error {
	if _, ok := r.s.categoryByID(category.ID); ok {
		return shared.ErrAlreadyExists
	}
	r.s.categories[category.Key] = *category
	return nil
}

func (r memCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	if r.s.failCategorySave != nil {
		if err := r.s.failCategorySave(category); err != nil {
			return err
		}
	}
	if _, ok := r.s.categories[category.Key]; !ok {
		return shared.ErrNotFound
	}
	if other, ok := r.s.categoryByID(category.ID); ok && other.Key != category.Key {
		return shared.ErrAlreadyExists
	}
	r.s.categories[category.Key] = *category
	return nil
}

func (r memCategoryRepo) DeleteByKeys(_ context.Context, keys []uuid.UUID) (int64, error) {
	var n int64
	for _, key := range keys {
		if _, ok := r.s.categories[key]; ok {
			delete(r.s.categories, key)
			n++
		}
	}
	return n, nil
}

// =============================================================================
// Products
// =============================================================================

type memProductRepo struct{ s *memStore }

func (r memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memProductRepo) Search(_ context.Context, search catalog.ProductSearch) ([]catalog.Product, int64, error) {
	keys := make(map[uuid.UUID]struct{}, len(search.CategoryKeys))
	for _, k := range search.CategoryKeys {
		keys[k] = struct{}{}
	}
	out := make([]catalog.Product, 0)
	for _, p := range r.s.products {
		if search.Has(catalog.SearchByCategory) {
			if p.CategoryKey == nil {
				continue
			}
			if _, ok := keys[*p.CategoryKey]; !ok {
				continue
			}
		}
		if search.Has(catalog.SearchByName) &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(search.Name)) {
			continue
		}
		if search.Has(catalog.SearchByLessPrice) && (p.LowestPrice == nil || p.LowestPrice.GreaterThan(*search.LessPrice)) {
			continue
		}
		if search.Has(catalog.SearchByMorePrice) && (p.LowestPrice == nil || p.LowestPrice.LessThan(*search.MorePrice)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, int64(len(out)), nil
}

func (r memProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	return err == nil, nil
}

func (r memProductRepo) Create(_ context.Context, product *catalog.Product) error {
	r.s.products[product.ID] = *product
	return nil
}

func (r memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	stored, ok := r.s.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != product.Version {
		return shared.ErrConcurrencyConflict
	}
	product.Version++
	updated := *product
	updated.LowestPrice = stored.LowestPrice
	r.s.products[product.ID] = updated
	return nil
}

func (r memProductRepo) SaveLowestPrice(_ context.Context, id uuid.UUID, price *decimal.Decimal) error {
	stored, ok := r.s.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if price != nil {
		p := *price
		price = &p
	}
	stored.LowestPrice = price
	r.s.products[id] = stored
	return nil
}

func (r memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r memProductRepo) DetachCategories(_ context.Context, categoryKeys []uuid.UUID) (int64, error) {
	var n int64
	for id, p := range r.s.products {
		if p.CategoryKey == nil {
			continue
		}
		for _, key := range categoryKeys {
			if *p.CategoryKey == key {
				p.CategoryKey = nil
				r.s.products[id] = p
				n++
				break
			}
		}
	}
	return n, nil
}

// =============================================================================
// Variants
// =============================================================================

type memVariantRepo struct{ s *memStore }

func (r memVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.BoutiqueProduct, error) {
	v, ok := r.s.variants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (r memVariantRepo) FindByNaturalKey(_ context.Context, sku string, boutiqueID uuid.UUID, size string) (*catalog.BoutiqueProduct, error) {
	for _, v := range r.s.variants {
		if v.SKU == sku && v.BoutiqueID == boutiqueID && v.Size == size {
			return &v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memVariantRepo) FindBySKU(_ context.Context, sku string) ([]catalog.BoutiqueProduct, error) {
	out := make([]catalog.BoutiqueProduct, 0)
	for _, v := range r.s.variants {
		if v.SKU == sku {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}

func (r memVariantRepo) LowestInStockPrice(ctx context.Context, sku string, exclude uuid.UUID) (*decimal.Decimal, error) {
	all, _ := r.FindBySKU(ctx, sku)
	others := make([]catalog.BoutiqueProduct, 0, len(all))
	for _, v := range all {
		if v.ID != exclude {
			others = append(others, v)
		}
	}
	return catalog.LowestInStockPrice(others), nil
}

func (r memVariantRepo) LowestPricesBySize(ctx context.Context, sku string) ([]catalog.SizePrice, error) {
	all, _ := r.FindBySKU(ctx, sku)
	bySize := make(map[string]decimal.Decimal)
	for _, v := range all {
		if !v.InStock() {
			continue
		}
		if cur, ok := bySize[v.Size]; !ok || v.Price.LessThan(cur) {
			bySize[v.Size] = v.Price
		}
	}
	out := make([]catalog.SizePrice, 0, len(bySize))
	for size, price := range bySize {
		out = append(out, catalog.SizePrice{Size: size, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out, nil
}

func (r memVariantRepo) Create(_ context.Context, variant *catalog.BoutiqueProduct) error {
	r.s.variants[variant.ID] = *variant
	return nil
}

func (r memVariantRepo) Upsert(ctx context.Context, variant *catalog.BoutiqueProduct) (*catalog.BoutiqueProduct, *catalog.BoutiqueProduct, error) {
	prior, err := r.FindByNaturalKey(ctx, variant.SKU, variant.BoutiqueID, variant.Size)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}
	if r.s.beforeUpsertWrite != nil {
		r.s.beforeUpsertWrite(*variant)
	}

	stored, err := r.FindByNaturalKey(ctx, variant.SKU, variant.BoutiqueID, variant.Size)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		stored = variant
	case err != nil:
		return nil, nil, err
	default:
		stored.Price = variant.Price
		stored.Quantity = variant.Quantity
	}
	r.s.variants[stored.ID] = *stored
	out := *stored
	return &out, prior, nil
}

func (r memVariantRepo) Save(_ context.Context, variant *catalog.BoutiqueProduct) error {
	if _, ok := r.s.variants[variant.ID]; !ok {
		return shared.ErrNotFound
	}
	r.s.variants[variant.ID] = *variant
	return nil
}

func (r memVariantRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.variants, id)
	return nil
}

func (r memVariantRepo) DeleteBySKU(_ context.Context, sku string) (int64, error) {
	var n int64
	for id, v := range r.s.variants {
		if v.SKU == sku {
			delete(r.s.variants, id)
			n++
		}
	}
	return n, nil
}

// =============================================================================
// Boutiques and likes
// =============================================================================

type memBoutiqueRepo struct{ s *memStore }

func (r memBoutiqueRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Boutique, error) {
	b, ok := r.s.boutiques[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r memBoutiqueRepo) FindAll(_ context.Context) ([]catalog.Boutique, error) {
	out := make([]catalog.Boutique, 0, len(r.s.boutiques))
	for _, b := range r.s.boutiques {
		out = append(out, b)
	}
	return out, nil
}

func (r memBoutiqueRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.s.boutiques[id]
	return ok, nil
}

func (r memBoutiqueRepo) Create(_ context.Context, boutique *catalog.Boutique) error {
	r.s.boutiques[boutique.ID] = *boutique
	return nil
}

type memLikeRepo struct{ s *memStore }

func (r memLikeRepo) Add(_ context.Context, userID, productID uuid.UUID) error {
	r.s.likes[[2]uuid.UUID{userID, productID}] = struct{}{}
	return nil
}

func (r memLikeRepo) Remove(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, productID}
	if _, ok := r.s.likes[key]; !ok {
		return false, nil
	}
	delete(r.s.likes, key)
	return true, nil
}

func (r memLikeRepo) ProductIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	for key := range r.s.likes {
		if key[0] == userID {
			out = append(out, key[1])
		}
	}
	return out, nil
}

func (r memLikeRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for key := range r.s.likes {
		if key[1] == productID {
			n++
		}
	}
	return n, nil
}

func (r memLikeRepo) DeleteByProduct(_ context.Context, productID uuid.UUID) error {
	for key := range r.s.likes {
		if key[1] == productID {
			delete(r.s.likes, key)
		}
	}
	return nil
}

func (r memLikeRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for key := range r.s.likes {
		if key[0] == userID {
			delete(r.s.likes, key)
		}
	}
	return nil
}

var _ TransactionScope = (*memStore)(nil)
var _ TransactionalRepositories = (*memStore)(nil)
