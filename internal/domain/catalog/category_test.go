package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCategory(t *testing.T) {
	t.Run("creates root category with valid id", func(t *testing.T) {
		category, err := NewRootCategory("Men")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "men", category.ID)
		assert.Equal(t, RootPath, category.Path)
		assert.True(t, category.IsRoot())
		assert.Equal(t, 0, category.Depth())
		assert.Empty(t, category.ParentID())
		assert.NotEmpty(t, category.Key)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		category, err := NewRootCategory("  shoes ")
		require.NoError(t, err)
		assert.Equal(t, "shoes", category.ID)
	})

	t.Run("fails with empty id", func(t *testing.T) {
		_, err := NewRootCategory("   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with id too long", func(t *testing.T) {
		_, err := NewRootCategory(strings.Repeat("a", MaxCategoryIDLength+1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 50 characters")
	})

	t.Run("fails with delimiter in id", func(t *testing.T) {
		_, err := NewRootCategory("men,women")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot contain ','")
	})

	t.Run("fails with control characters", func(t *testing.T) {
		_, err := NewRootCategory("men\tshoes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid characters")
	})
}

func TestNewChildCategory(t *testing.T) {
	root, err := NewRootCategory("men")
	require.NoError(t, err)

	t.Run("builds path from parent", func(t *testing.T) {
		child, err := NewChildCategory("shoes", root, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		assert.Equal(t, ",men,", child.Path)
		assert.Equal(t, "men", child.ParentID())
		assert.Equal(t, 1, child.Depth())

		grandchild, err := NewChildCategory("sneakers", child, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		assert.Equal(t, ",men,shoes,", grandchild.Path)
		assert.True(t, root.IsAncestorOf(grandchild))
		assert.True(t, child.IsAncestorOf(grandchild))
		assert.False(t, grandchild.IsAncestorOf(root))
	})

	t.Run("fails without parent", func(t *testing.T) {
		_, err := NewChildCategory("shoes", nil, DefaultMaxCategoryDepth)
		assert.ErrorIs(t, err, shared.ErrInvalidParent)
	})

	t.Run("fails when id equals parent id", func(t *testing.T) {
		_, err := NewChildCategory("MEN", root, DefaultMaxCategoryDepth)
		assert.ErrorIs(t, err, shared.ErrCircularReference)
	})

	t.Run("fails beyond max depth", func(t *testing.T) {
		parent := root
		for _, id := range []string{"a", "b"} {
			parent, err = NewChildCategory(id, parent, 2)
			require.NoError(t, err)
		}
		_, err := NewChildCategory("c", parent, 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestCategory_MoveUnder(t *testing.T) {
	newTree := func(t *testing.T) (a, b, c, d *Category) {
		var err error
		a, err = NewRootCategory("a")
		require.NoError(t, err)
		b, err = NewChildCategory("b", a, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		c, err = NewChildCategory("c", b, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		d, err = NewChildCategory("d", a, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		return a, b, c, d
	}

	t.Run("moves subtree under sibling", func(t *testing.T) {
		_, b, c, d := newTree(t)

		oldPrefix, newPrefix, err := b.MoveUnder(d, DefaultMaxCategoryDepth)
		require.NoError(t, err)
		assert.Equal(t, ",a,b,", oldPrefix)
		assert.Equal(t, ",a,d,b,", newPrefix)
		assert.Equal(t, ",a,d,", b.Path)

		require.True(t, c.RebasePath(oldPrefix, newPrefix))
		assert.Equal(t, ",a,d,b,", c.Path)
		assert.Equal(t, b.ChildPath(), c.Path)
	})

	t.Run("rejects moving under itself", func(t *testing.T) {
		_, b, _, _ := newTree(t)
		_, _, err := b.MoveUnder(b, DefaultMaxCategoryDepth)
		assert.ErrorIs(t, err, shared.ErrCircularReference)
	})

	t.Run("rejects moving under a descendant", func(t *testing.T) {
		_, b, c, _ := newTree(t)
		path := b.Path
		_, _, err := b.MoveUnder(c, DefaultMaxCategoryDepth)
		assert.ErrorIs(t, err, shared.ErrCircularReference)
		assert.Equal(t, path, b.Path)
	})

	t.Run("rejects missing superior", func(t *testing.T) {
		_, b, _, _ := newTree(t)
		_, _, err := b.MoveUnder(nil, DefaultMaxCategoryDepth)
		assert.ErrorIs(t, err, shared.ErrInvalidParent)
	})

	t.Run("rebase ignores unrelated paths", func(t *testing.T) {
		_, _, _, d := newTree(t)
		assert.False(t, d.RebasePath(",a,b,", ",x,b,"))
		assert.Equal(t, ",a,", d.Path)
	})
}

func TestCategory_Rename(t *testing.T) {
	root, err := NewRootCategory("shoes")
	require.NoError(t, err)
	child, err := NewChildCategory("boots", root, DefaultMaxCategoryDepth)
	require.NoError(t, err)
	key := root.Key

	require.NoError(t, root.Rename("Footwear"))
	assert.Equal(t, "footwear", root.ID)
	assert.Equal(t, key, root.Key)
	assert.Equal(t, RootPath, root.Path)

	require.True(t, child.RenameAncestor("shoes", "footwear"))
	assert.Equal(t, ",footwear,", child.Path)
	assert.Equal(t, root.ChildPath(), child.Path)

	assert.Error(t, root.Rename(""))
	assert.Equal(t, "footwear", root.ID)
}
