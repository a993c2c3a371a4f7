package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/shopmall/backend/internal/application/catalog"
)

// BrandHandler handles brand and boutique HTTP requests
type BrandHandler struct {
	BaseHandler
	brandService *appcatalog.BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService *appcatalog.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// List godoc
// @ID           listBrands
// @Summary      List brands
// @Tags         brands
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        page      query int    false "Page" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appcatalog.BrandResponse]
// @Router       /brands [get]
func (h *BrandHandler) List(c *gin.Context) {
	var filter appcatalog.BrandListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	brands, total, err := h.brandService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, brands, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getBrand
// @Summary      Get a brand
// @Tags         brands
// @Produce      json
// @Param        id path string true "Brand ID" format(uuid)
// @Success      200 {object} APIResponse[appcatalog.BrandResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /brands/{id} [get]
func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Create godoc
// @ID           createBrand
// @Summary      Create a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.BrandRequest true "Brand"
// @Success      201 {object} APIResponse[appcatalog.BrandResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands [post]
func (h *BrandHandler) Create(c *gin.Context) {
	var req appcatalog.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// Update godoc
// @ID           updateBrand
// @Summary      Rename a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Brand ID" format(uuid)
// @Param        request body appcatalog.BrandRequest true "Brand"
// @Success      200 {object} APIResponse[appcatalog.BrandResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [patch]
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete godoc
// @ID           deleteBrand
// @Summary      Delete a brand
// @Tags         brands
// @Param        id path string true "Brand ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListBoutiques godoc
// @ID           listBoutiques
// @Summary      List boutiques
// @Tags         boutiques
// @Produce      json
// @Success      200 {object} APIResponse[[]appcatalog.BoutiqueResponse]
// @Router       /boutiques [get]
func (h *BrandHandler) ListBoutiques(c *gin.Context) {
	boutiques, err := h.brandService.ListBoutiques(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boutiques)
}

// CreateBoutique godoc
// @ID           createBoutique
// @Summary      Create a boutique
// @Tags         boutiques
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.BoutiqueRequest true "Boutique"
// @Success      201 {object} APIResponse[appcatalog.BoutiqueResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boutiques [post]
func (h *BrandHandler) CreateBoutique(c *gin.Context) {
	var req appcatalog.BoutiqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	boutique, err := h.brandService.CreateBoutique(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, boutique)
}
