package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxCategoryDepth is the default maximum number of ancestors a category may have
const DefaultMaxCategoryDepth = 10

// MaxCategoryIDLength is the maximum length of a category id, in characters
const MaxCategoryIDLength = 50

// Category is a node of the category forest.
//
// Key is the immutable internal identity; ID is the human-facing identifier
// that appears in paths and URLs and can be changed by Rename.
type Category struct {
	Key       uuid.UUID
	ID        string
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRootCategory creates a category without parent
func NewRootCategory(id string) (*Category, error) {
	normalized, err := NormalizeCategoryID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Category{
		Key:       uuid.New(),
		ID:        normalized,
		Path:      RootPath,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewChildCategory creates a category directly under parent
func NewChildCategory(id string, parent *Category, maxDepth int) (*Category, error) {
	if parent == nil {
		return nil, shared.ErrInvalidParent
	}
	normalized, err := NormalizeCategoryID(id)
	if err != nil {
		return nil, err
	}
	if normalized == parent.ID {
		return nil, shared.ErrCircularReference
	}

	path := parent.ChildPath()
	if err := checkDepth(path, maxDepth); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Category{
		Key:       uuid.New(),
		ID:        normalized,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChildPath returns the path carried by the direct children of c
func (c *Category) ChildPath() string {
	return ChildPath(c.Path, c.ID)
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.Path == RootPath
}

// Depth returns the number of ancestors of the category
func (c *Category) Depth() int {
	return PathDepth(c.Path)
}

// ParentID returns the id of the direct parent, or "" for a root category
func (c *Category) ParentID() string {
	return ParentIDFromPath(c.Path)
}

// IsAncestorOf checks whether c is an ancestor of other
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil {
		return false
	}
	return IsDescendantPath(other.Path, c.ID)
}

// MoveUnder re-parents c below superior and returns the subtree prefix before
// and after the move, for rewriting descendant paths.
func (c *Category) MoveUnder(superior *Category, maxDepth int) (oldPrefix, newPrefix string, err error) {
	if superior == nil {
		return "", "", shared.ErrInvalidParent
	}
	if superior.Key == c.Key || c.IsAncestorOf(superior) {
		return "", "", shared.ErrCircularReference
	}

	newPath := superior.ChildPath()
	if err := checkDepth(newPath, maxDepth); err != nil {
		return "", "", err
	}

	oldPrefix = c.ChildPath()
	c.Path = newPath
	c.UpdatedAt = time.Now()
	return oldPrefix, c.ChildPath(), nil
}

// Rename changes the display id of the category. Key and Path are unchanged.
func (c *Category) Rename(newID string) error {
	normalized, err := NormalizeCategoryID(newID)
	if err != nil {
		return err
	}
	c.ID = normalized
	c.UpdatedAt = time.Now()
	return nil
}

// RebasePath rewrites the path of a descendant after its ancestor moved from
// oldPrefix to newPrefix. It reports false when c is not below oldPrefix.
func (c *Category) RebasePath(oldPrefix, newPrefix string) bool {
	path, ok := ReplacePathPrefix(c.Path, oldPrefix, newPrefix)
	if !ok {
		return false
	}
	c.Path = path
	c.UpdatedAt = time.Now()
	return true
}

// RenameAncestor rewrites the path of a descendant after an ancestor was renamed.
func (c *Category) RenameAncestor(oldID, newID string) bool {
	path, ok := RenamePathSegment(c.Path, oldID, newID)
	if !ok {
		return false
	}
	c.Path = path
	c.UpdatedAt = time.Now()
	return true
}

// NormalizeCategoryID trims and lower-cases a category id and validates it
func NormalizeCategoryID(id string) (string, error) {
	normalized := cases.Lower(language.Und).String(strings.TrimSpace(id))
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_CATEGORY_ID", "Category id cannot be empty")
	}
	if utf8.RuneCountInString(normalized) > MaxCategoryIDLength {
		return "", shared.NewDomainError("INVALID_CATEGORY_ID",
			fmt.Sprintf("Category id cannot exceed %d characters", MaxCategoryIDLength))
	}
	if strings.Contains(normalized, PathDelimiter) {
		return "", shared.NewDomainError("INVALID_CATEGORY_ID", "Category id cannot contain ','")
	}
	for _, r := range normalized {
		if unicode.IsControl(r) || (unicode.IsSpace(r) && r != ' ') {
			return "", shared.NewDomainError("INVALID_CATEGORY_ID", "Category id contains invalid characters")
		}
	}
	return normalized, nil
}

func checkDepth(path string, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCategoryDepth
	}
	if PathDepth(path) > maxDepth {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Category depth cannot exceed %d levels", maxDepth))
	}
	return nil
}
