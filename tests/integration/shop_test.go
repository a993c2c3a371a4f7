package integration

import (
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appcatalog "github.com/shopmall/backend/internal/application/catalog"
	appidentity "github.com/shopmall/backend/internal/application/identity"
	apptrade "github.com/shopmall/backend/internal/application/trade"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/cache"
	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/shopmall/backend/internal/infrastructure/persistence"
	"github.com/shopmall/backend/internal/interfaces/http/handler"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"github.com/shopmall/backend/internal/interfaces/http/router"
	"github.com/shopmall/backend/tests/testutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// shop holds every service wired over one database, the way the server
// wires them
type shop struct {
	db         *TestDB
	jwt        *auth.JWTService
	blacklist  auth.TokenBlacklist
	categories *appcatalog.CategoryService
	pricing    *appcatalog.PricingService
	products   *appcatalog.ProductService
	brands     *appcatalog.BrandService
	users      *appidentity.UserService
	auth       *appidentity.AuthService
	carts      *apptrade.CartService
	orders     *apptrade.OrderService
}

// newShop wires the services over tdb. With a Redis client the token
// blacklist and idempotency store are the Redis implementations.
func newShop(t *testing.T, tdb *TestDB, redisClient *redis.Client) *shop {
	t.Helper()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	var idempotency shared.IdempotencyStore = cache.NewInMemoryIdempotencyStore()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotency = cache.NewRedisIdempotencyStore(redisClient, "")
	}
	t.Cleanup(func() { _ = idempotency.Close() })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-0123456789abcdef",
		RefreshSecret:          "integration-refresh-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-integration",
		MaxRefreshCount:        5,
	})

	db := tdb.DB
	scope := persistence.NewGormTransactionScope(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	variantRepo := persistence.NewGormVariantRepository(db)
	brandRepo := persistence.NewGormBrandRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	s := &shop{db: tdb, jwt: jwtService, blacklist: blacklist}
	s.categories = appcatalog.NewCategoryService(categoryRepo, scope.Catalog(), catalog.DefaultMaxCategoryDepth, nil)
	s.pricing = appcatalog.NewPricingService(variantRepo, scope.Catalog(), catalog.PricingPolicy{RecomputeOnStockout: true}, nil)
	s.products = appcatalog.NewProductService(appcatalog.ProductServiceDeps{
		ProductRepo:     productRepo,
		CategoryRepo:    categoryRepo,
		BrandRepo:       brandRepo,
		VariantRepo:     variantRepo,
		LikeRepo:        persistence.NewGormLikeRepository(db),
		CategoryService: s.categories,
		TxScope:         scope.Catalog(),
	})
	s.brands = appcatalog.NewBrandService(brandRepo, persistence.NewGormBoutiqueRepository(db), nil)
	s.auth = appidentity.NewAuthService(userRepo, jwtService, blacklist, nil)
	s.users = appidentity.NewUserService(appidentity.UserServiceDeps{
		UserRepo:   userRepo,
		BrandRepo:  brandRepo,
		TxScope:    scope.Identity(),
		Blacklist:  blacklist,
		SessionTTL: time.Hour,
	})
	s.carts = apptrade.NewCartService(persistence.NewGormCartRepository(db), variantRepo, nil)
	s.orders = apptrade.NewOrderService(apptrade.OrderServiceDeps{
		OrderRepo:         persistence.NewGormOrderRepository(db),
		UserRepo:          userRepo,
		TxScope:           scope.Trade(),
		IdempotencyStore:  idempotency,
		IdempotencyConfig: shared.IdempotencyConfig{Enabled: true, TTL: time.Hour},
	})
	return s
}

// api serves the full route table over the shop's services
func (s *shop) api(t *testing.T) testutil.APIClient {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine)
	r.Register(router.ShopRoutes(router.Handlers{
		Auth:     handler.NewAuthHandler(s.auth),
		User:     handler.NewUserHandler(s.users),
		Category: handler.NewCategoryHandler(s.categories),
		Brand:    handler.NewBrandHandler(s.brands),
		Product:  handler.NewProductHandler(s.products, s.pricing),
		Cart:     handler.NewCartHandler(s.carts),
		Order:    handler.NewOrderHandler(s.orders),
		System:   handler.NewSystemHandler("integration", nil),
	}, router.AccessConfig{
		JWTService:     s.jwt,
		TokenBlacklist: s.blacklist,
	})...)
	r.Setup()
	return testutil.APIClient{Engine: engine}
}

// staffToken issues a back-office token without a stored user
func (s *shop) staffToken(t *testing.T, role identity.Role) string {
	t.Helper()
	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		UID:    "staff",
		Email:  "staff@shop.test",
		Role:   role.String(),
	})
	require.NoError(t, err)
	return pair.AccessToken
}
