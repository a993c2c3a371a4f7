package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopmall/backend/internal/application/catalog"
	identityapp "github.com/shopmall/backend/internal/application/identity"
	tradeapp "github.com/shopmall/backend/internal/application/trade"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/cache"
	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/shopmall/backend/internal/infrastructure/logger"
	"github.com/shopmall/backend/internal/infrastructure/persistence"
	"github.com/shopmall/backend/internal/interfaces/http/handler"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"github.com/shopmall/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/shopmall/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			Shopmall Backend API
//	@version		1.0
//	@description	Catalog, pricing, account, cart and order API of the shopmall backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	tel, log := setupTelemetry(rootCtx, cfg, log)
	defer tel.shutdown(log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")
	tel.instrumentDatabase(rootCtx, cfg, db, log)

	// Redis is optional: the blacklist and idempotency store fall back to memory
	var tokenBlacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	idempotencyFactory := cache.NewIdempotencyStoreFactory(nil, cache.WithLogger(log))
	healthChecks := map[string]handler.HealthChecker{"database": db.Ping}
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(rootCtx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory token blacklist and idempotency store", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing Redis client", zap.Error(err))
				}
			}()
			tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
			idempotencyFactory = cache.NewIdempotencyStoreFactory(redisClient, cache.WithLogger(log))
			healthChecks["redis"] = func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	txScope := persistence.NewGormTransactionScope(db.DB)

	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	boutiqueRepo := persistence.NewGormBoutiqueRepository(db.DB)
	likeRepo := persistence.NewGormLikeRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	categoryService := catalogapp.NewCategoryService(categoryRepo, txScope.Catalog(), cfg.Catalog.MaxCategoryDepth, log)
	pricingService := catalogapp.NewPricingService(variantRepo, txScope.Catalog(),
		catalog.PricingPolicy{RecomputeOnStockout: cfg.Pricing.RecomputeOnStockout}, log)
	productService := catalogapp.NewProductService(catalogapp.ProductServiceDeps{
		ProductRepo:     productRepo,
		CategoryRepo:    categoryRepo,
		BrandRepo:       brandRepo,
		VariantRepo:     variantRepo,
		LikeRepo:        likeRepo,
		CategoryService: categoryService,
		TxScope:         txScope.Catalog(),
		Logger:          log,
	})
	brandService := catalogapp.NewBrandService(brandRepo, boutiqueRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(identityapp.UserServiceDeps{
		UserRepo:   userRepo,
		BrandRepo:  brandRepo,
		TxScope:    txScope.Identity(),
		Blacklist:  tokenBlacklist,
		SessionTTL: cfg.JWT.RefreshTokenExpiration,
		Logger:     log,
	})
	cartService := tradeapp.NewCartService(cartRepo, variantRepo, log)
	orderService := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		OrderRepo:        orderRepo,
		UserRepo:         userRepo,
		TxScope:          txScope.Trade(),
		IdempotencyStore: idempotencyStore,
		IdempotencyConfig: shared.IdempotencyConfig{
			Enabled: cfg.Idempotency.Enabled,
			TTL:     cfg.Idempotency.TTL,
		},
		Logger: log,
	})

	if bm := tel.businessMetrics(rootCtx, persistence.NewGormCatalogMetricsProvider(db.DB), log); bm != nil {
		categoryService.SetBusinessMetrics(bm)
		pricingService.SetBusinessMetrics(bm)
		orderService.SetBusinessMetrics(bm)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validator", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(tel.meters, log),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:          cfg.Telemetry.ProfilingEnabled,
			SkipPathPrefixes: []string{"/api/v1/health", "/swagger"},
		}),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimiter.StartCleanup(rootCtx)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.ShopRoutes(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Category: handler.NewCategoryHandler(categoryService),
		Brand:    handler.NewBrandHandler(brandService),
		Product:  handler.NewProductHandler(productService, pricingService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService),
		System:   handler.NewSystemHandler(version, healthChecks),
	}, router.AccessConfig{
		JWTService:      jwtService,
		TokenBlacklist:  tokenBlacklist,
		AuthRateLimiter: authLimiter,
		Logger:          log,
	})...)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopBackground()

	log.Info("Server exited gracefully")
}
