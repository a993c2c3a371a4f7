package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/shopmall/backend/internal/application/trade"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients retry a checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *apptrade.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *apptrade.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Check out the cart
// @Description  Turns the caller's cart into an order and empties the cart. A repeated Idempotency-Key is rejected with 409.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string             false "Client retry key"
// @Param        request         body   CreateOrderRequest true  "Delivery address"
// @Success      201 {object} APIResponse[apptrade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, apptrade.CreateOrderRequest{
		Address:        req.Address,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listMyOrders
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Param        page      query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]apptrade.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var query OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	page, pageSize := normalizePage(query.Page, query.PageSize)

	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), userID, apptrade.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Buyers see their own orders; back-office roles see every order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[apptrade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AdvanceStatus godoc
// @ID           advanceOrderStatus
// @Summary      Advance order status
// @Description  Moves the order to the given status or, without one, to the next. Status never moves backwards.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string              true "Order ID" format(uuid)
// @Param        request body AdvanceOrderRequest false "Target status"
// @Success      200 {object} APIResponse[apptrade.OrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req AdvanceOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	order, err := h.orderService.AdvanceOrderStatus(c.Request.Context(), actor, id, apptrade.AdvanceOrderRequest{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *OrderHandler) actor(c *gin.Context) (apptrade.Actor, bool) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return apptrade.Actor{}, false
	}
	return apptrade.Actor{
		UserID: userID,
		Role:   identity.Role(middleware.GetJWTRole(c)),
	}, true
}
