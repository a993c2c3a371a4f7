package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/shopmall/backend/internal/application/identity"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @ID           createUser
// @Summary      Sign up
// @Description  Create a customer account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Account data"
// @Success      201 {object} APIResponse[appidentity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), appidentity.CreateUserRequest{
		Name:     req.Name,
		UID:      req.UID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetSelf godoc
// @ID           getSelfUser
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[appidentity.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/self [get]
func (h *UserHandler) GetSelf(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateSelf godoc
// @ID           updateSelfUser
// @Summary      Update own profile
// @Description  Change name, email or password. A password change ends every other session.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateSelfRequest true "Fields to change"
// @Success      200 {object} APIResponse[appidentity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/self [patch]
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req UpdateSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.UpdateSelf(c.Request.Context(), userID, appidentity.UpdateSelfRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// DeleteSelf godoc
// @ID           deleteSelfUser
// @Summary      Delete own account
// @Description  Removes the account together with its cart and likes
// @Tags         users
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/self [delete]
func (h *UserHandler) DeleteSelf(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteSelf(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BelongToBrand godoc
// @ID           belongUserToBrand
// @Summary      Attach a user to a brand
// @Description  A super admin appoints brand chief admins; a brand chief admin appoints brand admins of their own brand
// @Tags         users
// @Produce      json
// @Param        user_id  path string true "User ID" format(uuid)
// @Param        brand_id path string true "Brand ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{user_id}/brands/{brand_id} [patch]
func (h *UserHandler) BelongToBrand(c *gin.Context) {
	actorID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	userID, ok := h.ParseUUIDParam(c, "user_id")
	if !ok {
		return
	}
	brandID, ok := h.ParseUUIDParam(c, "brand_id")
	if !ok {
		return
	}

	claims := middleware.GetJWTClaims(c)
	actor := appidentity.Actor{
		UserID:  actorID,
		Role:    identity.Role(claims.Role),
		BrandID: claims.GetBrandUUID(),
	}

	user, err := h.userService.BelongUserToBrand(c.Request.Context(), actor, userID, brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
