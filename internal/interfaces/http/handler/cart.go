package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/shopmall/backend/internal/application/trade"
)

// CartHandler handles cart HTTP requests
type CartHandler struct {
	BaseHandler
	cartService *apptrade.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *apptrade.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @ID           getCart
// @Summary      Get own cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[apptrade.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// PutItem godoc
// @ID           putInCart
// @Summary      Add an offer to the cart
// @Description  Adding a variant already in the cart increases its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body PutInCartRequest true "Cart line"
// @Success      200 {object} APIResponse[apptrade.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) PutItem(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req PutInCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	cart, err := h.cartService.PutInCart(c.Request.Context(), userID, apptrade.PutInCartRequest{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeFromCart
// @Summary      Remove an offer from the cart
// @Tags         cart
// @Produce      json
// @Param        variant_id path string true "Variant ID" format(uuid)
// @Success      200 {object} APIResponse[apptrade.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{variant_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	variantID, ok := h.ParseUUIDParam(c, "variant_id")
	if !ok {
		return
	}
	cart, err := h.cartService.RemoveFromCart(c.Request.Context(), userID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}
