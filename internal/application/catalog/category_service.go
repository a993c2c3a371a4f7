package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CategoryService maintains the category forest. Every write runs in a single
// transaction so that a path is never observed out of sync with its ancestors.
type CategoryService struct {
	categoryRepo    catalog.CategoryRepository
	txScope         TransactionScope
	maxDepth        int
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	txScope TransactionScope,
	maxDepth int,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = catalog.DefaultMaxCategoryDepth
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		txScope:      txScope,
		maxDepth:     maxDepth,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *CategoryService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new category, under parentID when given
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	id, err := catalog.NormalizeCategoryID(req.ID)
	if err != nil {
		return nil, err
	}

	var category *catalog.Category
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		categories := repos.CategoryRepo()

		exists, err := categories.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Category with this id already exists")
		}

		if req.ParentID == nil || *req.ParentID == "" {
			category, err = catalog.NewRootCategory(id)
			if err != nil {
				return err
			}
			return categories.Create(ctx, category)
		}

		parentID, err := catalog.NormalizeCategoryID(*req.ParentID)
		if err != nil {
			return err
		}
		parent, err := categories.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInvalidParent
			}
			return err
		}

		category, err = catalog.NewChildCategory(id, parent, s.maxDepth)
		if err != nil {
			return err
		}
		return categories.Create(ctx, category)
	})
	s.recordOperation(ctx, "create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID),
		zap.String("path", category.Path),
	)
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Move re-parents the subordinate category, with its whole subtree, under the
// superior category.
func (s *CategoryService) Move(ctx context.Context, superiorID, subordinateID string) (*MoveCategoryResponse, error) {
	var (
		subordinate *catalog.Category
		updated     int
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		categories := repos.CategoryRepo()

		superior, err := findCategory(ctx, categories, superiorID, "Superior category not found")
		if err != nil {
			return err
		}
		subordinate, err = findCategory(ctx, categories, subordinateID, "Subordinate category not found")
		if err != nil {
			return err
		}

		// Loaded before the subordinate moves so the segment match sees the old paths.
		descendants, err := categories.FindDescendants(ctx, subordinate.ID)
		if err != nil {
			return err
		}

		oldPrefix, newPrefix, err := subordinate.MoveUnder(superior, s.maxDepth)
		if err != nil {
			return err
		}
		if err := s.checkSubtreeDepth(descendants, oldPrefix, newPrefix); err != nil {
			return err
		}
		if err := categories.Save(ctx, subordinate); err != nil {
			return err
		}

		for i := range descendants {
			desc := &descendants[i]
			if !desc.RebasePath(oldPrefix, newPrefix) {
				return fmt.Errorf("descendant %q path %q is not below %q", desc.ID, desc.Path, oldPrefix)
			}
			if err := categories.Save(ctx, desc); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	s.recordOperation(ctx, "move", err)
	if err != nil {
		s.logger.Error("category move failed",
			zap.String("superior_id", superiorID),
			zap.String("subordinate_id", subordinateID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("category subtree moved",
		zap.String("category_id", subordinate.ID),
		zap.String("path", subordinate.Path),
		zap.Int("descendants_updated", updated),
	)
	return &MoveCategoryResponse{
		Category:           ToCategoryResponse(subordinate),
		DescendantsUpdated: updated,
	}, nil
}

// Rename changes the id of a category in place and rewrites the matching path
// segment of every descendant.
func (s *CategoryService) Rename(ctx context.Context, oldID string, req RenameCategoryRequest) (*RenameCategoryResponse, error) {
	newID, err := catalog.NormalizeCategoryID(req.ID)
	if err != nil {
		return nil, err
	}

	var (
		category *catalog.Category
		previous string
		updated  int
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		categories := repos.CategoryRepo()

		category, err = findCategory(ctx, categories, oldID, "Category not found")
		if err != nil {
			return err
		}
		previous = category.ID
		if newID == previous {
			return nil
		}

		exists, err := categories.ExistsByID(ctx, newID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Category with this id already exists")
		}

		descendants, err := categories.FindDescendants(ctx, previous)
		if err != nil {
			return err
		}

		if err := category.Rename(newID); err != nil {
			return err
		}
		if err := categories.Save(ctx, category); err != nil {
			return err
		}

		for i := range descendants {
			desc := &descendants[i]
			if !desc.RenameAncestor(previous, newID) {
				return fmt.Errorf("descendant %q path %q does not contain %q", desc.ID, desc.Path, previous)
			}
			if err := categories.Save(ctx, desc); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	s.recordOperation(ctx, "rename", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category renamed",
		zap.String("previous_id", previous),
		zap.String("category_id", category.ID),
		zap.Int("descendants_updated", updated),
	)
	return &RenameCategoryResponse{
		Category:           ToCategoryResponse(category),
		PreviousID:         previous,
		DescendantsUpdated: updated,
	}, nil
}

// Delete removes a category and all of its descendants. Products filed under
// any removed category are detached in the same transaction.
func (s *CategoryService) Delete(ctx context.Context, id string) (*DeleteCategoryResponse, error) {
	var result DeleteCategoryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		categories := repos.CategoryRepo()

		category, err := findCategory(ctx, categories, id, "Category not found")
		if err != nil {
			return err
		}
		descendants, err := categories.FindDescendants(ctx, category.ID)
		if err != nil {
			return err
		}

		keys := make([]uuid.UUID, 0, len(descendants)+1)
		keys = append(keys, category.Key)
		for _, desc := range descendants {
			keys = append(keys, desc.Key)
		}

		result.ProductsDetached, err = repos.ProductRepo().DetachCategories(ctx, keys)
		if err != nil {
			return err
		}
		result.CategoriesDeleted, err = categories.DeleteByKeys(ctx, keys)
		return err
	})
	s.recordOperation(ctx, "delete", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category subtree deleted",
		zap.String("category_id", id),
		zap.Int64("categories_deleted", result.CategoriesDeleted),
		zap.Int64("products_detached", result.ProductsDetached),
	)
	return &result, nil
}

// GetByID retrieves a category by its id
func (s *CategoryService) GetByID(ctx context.Context, id string) (*CategoryResponse, error) {
	category, err := findCategory(ctx, s.categoryRepo, id, "Category not found")
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// GetTree retrieves all categories as a forest
func (s *CategoryService) GetTree(ctx context.Context) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(categories), nil
}

// FindDescendants lists every category below id, shallowest first
func (s *CategoryService) FindDescendants(ctx context.Context, id string) ([]CategoryResponse, error) {
	category, err := findCategory(ctx, s.categoryRepo, id, "Category not found")
	if err != nil {
		return nil, err
	}
	descendants, err := s.categoryRepo.FindDescendants(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	sortByDepth(descendants)
	return ToCategoryResponses(descendants), nil
}

// FindChildren lists the categories whose path equals path exactly
func (s *CategoryService) FindChildren(ctx context.Context, path string) ([]CategoryResponse, error) {
	if path == "" {
		path = catalog.RootPath
	}
	children, err := s.categoryRepo.FindChildren(ctx, path)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(children), nil
}

// ResolveSubtreeKeys returns the keys of the given categories and all of their
// descendants. Unknown ids are skipped.
func (s *CategoryService) ResolveSubtreeKeys(ctx context.Context, ids []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	keys := make([]uuid.UUID, 0)
	add := func(key uuid.UUID) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	for _, raw := range ids {
		id, err := catalog.NormalizeCategoryID(raw)
		if err != nil {
			continue
		}
		category, err := s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		add(category.Key)

		descendants, err := s.categoryRepo.FindDescendants(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		for _, desc := range descendants {
			add(desc.Key)
		}
	}
	return keys, nil
}

func (s *CategoryService) checkSubtreeDepth(descendants []catalog.Category, oldPrefix, newPrefix string) error {
	growth := catalog.PathDepth(newPrefix) - catalog.PathDepth(oldPrefix)
	if growth <= 0 {
		return nil
	}
	for _, desc := range descendants {
		if desc.Depth()+growth > s.maxDepth {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Category depth cannot exceed %d levels", s.maxDepth))
		}
	}
	return nil
}

func (s *CategoryService) recordOperation(ctx context.Context, op string, err error) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordCategoryOperation(ctx, op, err == nil)
	}
}

func findCategory(ctx context.Context, repo catalog.CategoryRepository, id, notFound string) (*catalog.Category, error) {
	normalized, err := catalog.NormalizeCategoryID(id)
	if err != nil {
		return nil, err
	}
	category, err := repo.FindByID(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", notFound)
		}
		return nil, err
	}
	return category, nil
}

func sortByDepth(categories []catalog.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		di, dj := categories[i].Depth(), categories[j].Depth()
		if di != dj {
			return di < dj
		}
		return categories[i].ID < categories[j].ID
	})
}

// buildCategoryTree builds a forest from a flat list of categories using the
// parent id encoded in each path
func buildCategoryTree(categories []catalog.Category) []CategoryTreeNode {
	sorted := make([]catalog.Category, len(categories))
	copy(sorted, categories)
	sortByDepth(sorted)

	children := make(map[string][]string)
	byID := make(map[string]*catalog.Category, len(sorted))
	var roots []string
	for i := range sorted {
		cat := &sorted[i]
		byID[cat.ID] = cat
		if cat.IsRoot() {
			roots = append(roots, cat.ID)
			continue
		}
		parentID := cat.ParentID()
		children[parentID] = append(children[parentID], cat.ID)
	}

	var build func(id string) CategoryTreeNode
	build = func(id string) CategoryTreeNode {
		cat := byID[id]
		node := CategoryTreeNode{
			Key:      cat.Key,
			ID:       cat.ID,
			Path:     cat.Path,
			Children: make([]CategoryTreeNode, 0, len(children[id])),
		}
		for _, childID := range children[id] {
			node.Children = append(node.Children, build(childID))
		}
		return node
	}

	result := make([]CategoryTreeNode, 0, len(roots))
	for _, id := range roots {
		result = append(result, build(id))
	}
	return result
}
