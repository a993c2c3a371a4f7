package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/shopmall/backend/internal/application/catalog"
)

// CategoryHandler handles category tree HTTP requests
type CategoryHandler struct {
	BaseHandler
	categoryService *appcatalog.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Description  Flat list of every category, or the nested forest with tree=true
// @Tags         categories
// @Produce      json
// @Param        tree query bool false "Return nested tree"
// @Success      200 {object} APIResponse[[]appcatalog.CategoryResponse]
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	if tree, _ := strconv.ParseBool(c.Query("tree")); tree {
		nodes, err := h.categoryService.GetTree(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, nodes)
		return
	}

	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Get godoc
// @ID           getCategory
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category id"
// @Success      200 {object} APIResponse[appcatalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Descendants godoc
// @ID           listCategoryDescendants
// @Summary      List descendants
// @Description  Every category below the given one, shallowest first
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category id"
// @Success      200 {object} APIResponse[[]appcatalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id}/descendants [get]
func (h *CategoryHandler) Descendants(c *gin.Context) {
	categories, err := h.categoryService.FindDescendants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Children godoc
// @ID           listCategoryChildren
// @Summary      List children by path
// @Description  Categories whose materialized path equals the given path; an empty path lists the roots
// @Tags         categories
// @Produce      json
// @Param        path query string false "Materialized path such as ,shoes,"
// @Success      200 {object} APIResponse[[]appcatalog.CategoryResponse]
// @Router       /categories/children [get]
func (h *CategoryHandler) Children(c *gin.Context) {
	categories, err := h.categoryService.FindChildren(c.Request.Context(), c.Query("path"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[appcatalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req appcatalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Move godoc
// @ID           moveCategory
// @Summary      Move a subtree
// @Description  Re-parents sub_id and all of its descendants under super_id
// @Tags         categories
// @Produce      json
// @Param        super_id path string true "New parent id"
// @Param        sub_id   path string true "Category to move"
// @Success      200 {object} APIResponse[appcatalog.MoveCategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/super/{super_id}/sub/{sub_id} [patch]
func (h *CategoryHandler) Move(c *gin.Context) {
	result, err := h.categoryService.Move(c.Request.Context(), c.Param("super_id"), c.Param("sub_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Rename godoc
// @ID           renameCategory
// @Summary      Rename a category
// @Description  Changes the id and rewrites the paths of every descendant. Products keep their category.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Current id"
// @Param        request body appcatalog.RenameCategoryRequest true "New id"
// @Success      200 {object} APIResponse[appcatalog.RenameCategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [patch]
func (h *CategoryHandler) Rename(c *gin.Context) {
	var req appcatalog.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.categoryService.Rename(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a subtree
// @Description  Deletes the category with every descendant and detaches their products
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category id"
// @Success      200 {object} APIResponse[appcatalog.DeleteCategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	result, err := h.categoryService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
