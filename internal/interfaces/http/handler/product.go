package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shopmall/backend/internal/application/catalog"
)

// ProductHandler handles product, variant and like HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *appcatalog.ProductService
	pricingService *appcatalog.PricingService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *appcatalog.ProductService, pricingService *appcatalog.PricingService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		pricingService: pricingService,
	}
}

// Search godoc
// @ID           searchProducts
// @Summary      Search products
// @Description  Filters combine with AND. category and brand accept repeated or comma separated values; a category matches its whole subtree.
// @Tags         products
// @Produce      json
// @Param        category  query []string false "Category ids" collectionFormat(multi)
// @Param        name      query string   false "Name contains"
// @Param        brand     query []string false "Brand names" collectionFormat(multi)
// @Param        lessPrice query number   false "Lowest price at most"
// @Param        morePrice query number   false "Lowest price at least"
// @Param        page      query int      false "Page" default(1)
// @Param        page_size query int      false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appcatalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) Search(c *gin.Context) {
	var req appcatalog.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	products, total, err := h.productService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, req.Page, req.PageSize)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[appcatalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get godoc
// @ID           getProduct
// @Summary      Get a product
// @Description  Product with its cheapest in-stock price per size and like count
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[appcatalog.ProductDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetBySKU godoc
// @ID           getProductBySKU
// @Summary      Get a product by SKU
// @Tags         products
// @Produce      json
// @Param        sku path string true "SKU"
// @Success      200 {object} APIResponse[appcatalog.ProductDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/sku/{sku} [get]
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	product, err := h.productService.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Product ID" format(uuid)
// @Param        request body appcatalog.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[appcatalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Deletes the product with its variants and likes
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListVariants godoc
// @ID           listVariants
// @Summary      List boutique offers of a product
// @Tags         variants
// @Produce      json
// @Param        sku path string true "SKU"
// @Success      200 {object} APIResponse[[]appcatalog.VariantResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/sku/{sku}/boutique [get]
func (h *ProductHandler) ListVariants(c *gin.Context) {
	variants, err := h.pricingService.ListVariants(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// SizePrices godoc
// @ID           listSizePrices
// @Summary      Cheapest in-stock price per size
// @Tags         variants
// @Produce      json
// @Param        sku path string true "SKU"
// @Success      200 {object} APIResponse[[]appcatalog.SizePriceResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/sku/{sku}/sizes [get]
func (h *ProductHandler) SizePrices(c *gin.Context) {
	prices, err := h.pricingService.LowestPricesBySize(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// UpsertVariant godoc
// @ID           upsertVariant
// @Summary      Create or replace a boutique offer
// @Description  Keyed by (sku, boutique, size). The product's lowest price is updated in the same transaction.
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        sku     path string                          true "SKU"
// @Param        request body appcatalog.UpsertVariantRequest true "Offer"
// @Success      200 {object} APIResponse[appcatalog.VariantWriteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/sku/{sku}/boutique [post]
func (h *ProductHandler) UpsertVariant(c *gin.Context) {
	var req appcatalog.UpsertVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.pricingService.UpsertVariant(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateVariant godoc
// @ID           updateVariant
// @Summary      Change price or stock of an offer
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        variant_id path string                          true "Variant ID" format(uuid)
// @Param        request    body appcatalog.UpdateVariantRequest true "Fields to change"
// @Success      200 {object} APIResponse[appcatalog.VariantWriteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/boutique/{variant_id} [patch]
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "variant_id")
	if !ok {
		return
	}
	var req appcatalog.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.pricingService.UpdateVariant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteVariant godoc
// @ID           deleteVariant
// @Summary      Remove a boutique offer
// @Tags         variants
// @Param        variant_id path string true "Variant ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/boutique/{variant_id} [delete]
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "variant_id")
	if !ok {
		return
	}
	if err := h.pricingService.DeleteVariant(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecomputeLowestPrice godoc
// @ID           recomputeLowestPrice
// @Summary      Recompute the lowest price
// @Description  Recalculates the product's lowest price from its in-stock offers
// @Tags         variants
// @Produce      json
// @Param        sku path string true "SKU"
// @Success      200 {object} APIResponse[appcatalog.LowestPriceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/sku/{sku}/lowest-price/recompute [post]
func (h *ProductHandler) RecomputeLowestPrice(c *gin.Context) {
	result, err := h.pricingService.RecomputeLowestPrice(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Like godoc
// @ID           likeProduct
// @Summary      Like a product
// @Tags         likes
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/like [post]
func (h *ProductHandler) Like(c *gin.Context) {
	h.toggleLike(c, h.productService.Like)
}

// Unlike godoc
// @ID           unlikeProduct
// @Summary      Remove a like
// @Tags         likes
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/unlike [delete]
func (h *ProductHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, h.productService.Unlike)
}

func (h *ProductHandler) toggleLike(c *gin.Context, op func(ctx context.Context, userID, productID uuid.UUID) error) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListLiked godoc
// @ID           listLikedProducts
// @Summary      Products the caller likes
// @Tags         likes
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/self/likes [get]
func (h *ProductHandler) ListLiked(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	ids, err := h.productService.LikedProductIDs(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ids)
}
