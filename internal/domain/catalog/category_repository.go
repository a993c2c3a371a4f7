package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its display id
	FindByID(ctx context.Context, id string) (*Category, error)

	// FindByKey finds a category by its internal key
	FindByKey(ctx context.Context, key uuid.UUID) (*Category, error)

	// FindAll returns every category ordered by path and id
	FindAll(ctx context.Context) ([]Category, error)

	// FindChildren finds the categories whose path equals path exactly
	FindChildren(ctx context.Context, path string) ([]Category, error)

	// FindDescendants finds every category whose path contains id as a whole segment
	FindDescendants(ctx context.Context, id string) ([]Category, error)

	// ExistsByID checks if a category with the given display id exists
	ExistsByID(ctx context.Context, id string) (bool, error)

	// Create inserts a new category
	Create(ctx context.Context, category *Category) error

	// Save updates the id and path of an existing category
	Save(ctx context.Context, category *Category) error

	// DeleteByKeys deletes the categories with the given keys and returns the number removed
	DeleteByKeys(ctx context.Context, keys []uuid.UUID) (int64, error)
}
