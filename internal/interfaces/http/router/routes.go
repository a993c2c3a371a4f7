package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/interfaces/http/handler"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers of the shop API
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CategoryHandler
	Brand    *handler.BrandHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	System   *handler.SystemHandler
}

// AccessConfig configures authentication on the shop routes
type AccessConfig struct {
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// AuthRateLimiter limits the /auth endpoints per client IP; nil disables it
	AuthRateLimiter *middleware.RateLimiter
	Logger          *zap.Logger
}

// roleCodes converts roles to their claim codes
func roleCodes(roles []identity.Role) []string {
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.String()
	}
	return codes
}

// ShopRoutes builds the domain groups of the shop API. Catalog reads are
// public; catalog writes need a catalog managing role.
func ShopRoutes(h Handlers, access AccessConfig) []RouteRegistrar {
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     access.JWTService,
		TokenBlacklist: access.TokenBlacklist,
		Logger:         access.Logger,
	})
	catalogAdmin := []gin.HandlerFunc{
		requireAuth,
		middleware.RequireRoles(roleCodes(identity.CatalogRoles())...),
	}
	admin := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, catalogAdmin...), fn)
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	if access.AuthRateLimiter != nil {
		authRoutes.Use(middleware.RateLimit(access.AuthRateLimiter))
	}
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/refresh", h.Auth.RefreshToken)
	authRoutes.POST("/logout", requireAuth, h.Auth.Logout)

	userRoutes := NewDomainGroup("identity", "/users")
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("/self", requireAuth, h.User.GetSelf)
	userRoutes.PATCH("/self", requireAuth, h.User.UpdateSelf)
	userRoutes.DELETE("/self", requireAuth, h.User.DeleteSelf)
	userRoutes.GET("/self/likes", requireAuth, h.Product.ListLiked)
	userRoutes.PATCH("/:user_id/brands/:brand_id", requireAuth, h.User.BelongToBrand)

	categoryRoutes := NewDomainGroup("catalog", "/categories")
	categoryRoutes.GET("", h.Category.List)
	categoryRoutes.GET("/children", h.Category.Children)
	categoryRoutes.GET("/:id", h.Category.Get)
	categoryRoutes.GET("/:id/descendants", h.Category.Descendants)
	categoryRoutes.POST("", admin(h.Category.Create)...)
	categoryRoutes.PATCH("/super/:super_id/sub/:sub_id", admin(h.Category.Move)...)
	categoryRoutes.PATCH("/:id", admin(h.Category.Rename)...)
	categoryRoutes.DELETE("/:id", admin(h.Category.Delete)...)

	brandRoutes := NewDomainGroup("catalog", "/brands")
	brandRoutes.GET("", h.Brand.List)
	brandRoutes.GET("/:id", h.Brand.Get)
	brandRoutes.POST("", admin(h.Brand.Create)...)
	brandRoutes.PATCH("/:id", admin(h.Brand.Update)...)
	brandRoutes.DELETE("/:id", admin(h.Brand.Delete)...)

	boutiqueRoutes := NewDomainGroup("catalog", "/boutiques")
	boutiqueRoutes.GET("", h.Brand.ListBoutiques)
	boutiqueRoutes.POST("", admin(h.Brand.CreateBoutique)...)

	productRoutes := NewDomainGroup("catalog", "/products")
	productRoutes.GET("", h.Product.Search)
	productRoutes.GET("/:id", h.Product.Get)
	productRoutes.GET("/sku/:sku", h.Product.GetBySKU)
	productRoutes.GET("/sku/:sku/boutique", h.Product.ListVariants)
	productRoutes.GET("/sku/:sku/sizes", h.Product.SizePrices)
	productRoutes.POST("", admin(h.Product.Create)...)
	productRoutes.PATCH("/:id", admin(h.Product.Update)...)
	productRoutes.DELETE("/:id", admin(h.Product.Delete)...)
	productRoutes.POST("/sku/:sku/boutique", admin(h.Product.UpsertVariant)...)
	productRoutes.PATCH("/boutique/:variant_id", admin(h.Product.UpdateVariant)...)
	productRoutes.DELETE("/boutique/:variant_id", admin(h.Product.DeleteVariant)...)
	productRoutes.POST("/sku/:sku/lowest-price/recompute", admin(h.Product.RecomputeLowestPrice)...)
	productRoutes.POST("/:id/like", requireAuth, h.Product.Like)
	productRoutes.DELETE("/:id/unlike", requireAuth, h.Product.Unlike)

	cartRoutes := NewDomainGroup("trade", "/cart").Use(requireAuth)
	cartRoutes.GET("", h.Cart.Get)
	cartRoutes.POST("/items", h.Cart.PutItem)
	cartRoutes.DELETE("/items/:variant_id", h.Cart.RemoveItem)

	orderRoutes := NewDomainGroup("trade", "/orders").Use(requireAuth)
	orderRoutes.POST("", h.Order.Create)
	orderRoutes.GET("", h.Order.List)
	orderRoutes.GET("/:id", h.Order.Get)
	orderRoutes.PATCH("/:id/status", h.Order.AdvanceStatus)

	systemRoutes := NewDomainGroup("system", "")
	systemRoutes.GET("/health", h.System.Health)

	return []RouteRegistrar{
		authRoutes,
		userRoutes,
		categoryRoutes,
		brandRoutes,
		boutiqueRoutes,
		productRoutes,
		cartRoutes,
		orderRoutes,
		systemRoutes,
	}
}
