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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/database"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/routes"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/printer"
	"github.com/sangkips/restaurant-pos/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.App.LogLevel, cfg.App.Env != "production")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The stored configuration row is aligned to this zone during seeding
	clk, err := clock.NewFromName(cfg.Business.Timezone)
	if err != nil {
		log.Fatal("invalid business timezone", zap.String("timezone", cfg.Business.Timezone), zap.Error(err))
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg); err != nil {
		log.Fatal("failed to seed default data", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.New(registry, metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
	})

	var summaries cache.SummaryCache = cache.NewMemorySummaryCache()
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisSummaryCache(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn("redis unavailable, using in-process summary cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = redisCache.Close()
		} else {
			summaries = redisCache
			defer func() { _ = redisCache.Close() }()
		}
		cancel()
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	configRepo := repository.NewBusinessConfigRepository(db)
	tableRepo := repository.NewTableRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderDetailRepo := repository.NewOrderDetailRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.Address)
	if err != nil {
		log.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter, _ = printer.New(printer.KindNone, "")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo, transactor)
	configService := service.NewBusinessConfigService(configRepo, transactor)
	tableService := service.NewTableService(tableRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	orderService := service.NewOrderService(orderRepo, orderDetailRepo, productRepo, tableRepo, configRepo, transactor, clk, posMetrics)
	allocator := service.NewSequenceAllocator(configRepo, transactor, posMetrics)
	receiptService := service.NewReceiptService(receiptRepo, orderRepo, tableRepo, allocator, transactor, summaries, clk, posMetrics)
	cashService := service.NewCashSessionService(sessionRepo, receiptRepo, transactor, clk, posMetrics)
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, orderRepo, configRepo, clk, cfg.Printer.Width)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Table:       handler.NewTableHandler(tableService),
		Product:     handler.NewProductHandler(productService),
		Category:    handler.NewCategoryHandler(categoryService),
		Order:       handler.NewOrderHandler(orderService, clk),
		Receipt:     handler.NewReceiptHandler(receiptService, clk),
		CashSession: handler.NewCashSessionHandler(cashService, clk),
		Settings:    handler.NewSettingsHandler(configService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	limiter := middleware.NewRateLimiter(routes.RateLimiterConfig(cfg.RateLimit))
	defer limiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Clock:           clk,
		Gatherer:        registry,
		RateLimiter:     limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.String("timezone", cfg.Business.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}
