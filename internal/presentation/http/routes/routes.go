package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Table       *handler.TableHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Order       *handler.OrderHandler
	Receipt     *handler.ReceiptHandler
	CashSession *handler.CashSessionHandler
	Settings    *handler.SettingsHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Clock           clock.Clock
	Gatherer        prometheus.Gatherer
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Cfg.Metrics.Enabled && deps.Gatherer != nil {
		path := deps.Cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(RateLimiterConfig(deps.Cfg.RateLimit))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(limiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

// RateLimiterConfig converts the configured request budget into a token bucket
func RateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return rl
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	registerUserRoutes(protected, h)
	registerTableRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerReceiptRoutes(protected, h, deps)
	registerCashRoutes(protected, h)
	registerSettingsRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.PATCH("/:id/active", h.User.SetActive)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerTableRoutes(protected *gin.RouterGroup, h *Handlers) {
	tables := protected.Group("/tables")
	{
		view := middleware.RequirePermission(entity.PermViewTables)
		manage := middleware.RequirePermission(entity.PermManageTables)

		tables.GET("", view, h.Table.List)
		tables.GET("/free", view, h.Table.Free)
		tables.GET("/occupied", view, h.Table.Occupied)
		tables.GET("/summary", view, h.Table.Summary)
		tables.GET("/:id", view, h.Table.Get)
		tables.POST("", manage, h.Table.Create)
		tables.PUT("/:id", manage, h.Table.Update)
		tables.DELETE("/:id", manage, h.Table.Delete)
		tables.PATCH("/:id/status", middleware.RequirePermission(entity.PermChangeTable), h.Table.ChangeStatus)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	view := middleware.RequirePermission(entity.PermViewProducts)
	manage := middleware.RequirePermission(entity.PermManageProducts)

	products := protected.Group("/products")
	{
		products.GET("", view, h.Product.List)
		products.GET("/low-stock", view, h.Product.LowStock)
		products.GET("/:id", view, h.Product.Get)
		products.POST("", manage, h.Product.Create)
		products.PUT("/:id", manage, h.Product.Update)
		products.DELETE("/:id", manage, h.Product.Delete)
		products.PATCH("/:id/stock", manage, h.Product.AdjustStock)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", view, h.Category.List)
		categories.GET("/menu", view, h.Category.Menu)
		categories.POST("", manage, h.Category.Create)
		categories.PUT("/:id", manage, h.Category.Update)
		categories.DELETE("/:id", manage, h.Category.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:  deps.IdempotencyRepo,
		Clock: deps.Clock,
	})

	orders := protected.Group("/orders")
	{
		orders.GET("", middleware.RequirePermission(entity.PermTakeOrders), h.Order.List)
		orders.GET("/active", middleware.RequirePermission(entity.PermTakeOrders), h.Order.Active)
		orders.GET("/kitchen", middleware.RequirePermission(entity.PermViewKitchen), h.Order.Kitchen)
		orders.GET("/:id", middleware.RequirePermission(entity.PermTakeOrders), h.Order.Get)
		orders.POST("", middleware.RequirePermission(entity.PermTakeOrders), idempotent, h.Order.Create)
		orders.POST("/:id/items", middleware.RequirePermission(entity.PermUpdateOrders), h.Order.AddItems)
		orders.PATCH("/:id/status", middleware.RequirePermission(entity.PermUpdateOrders), h.Order.UpdateStatus)
		orders.PATCH("/:id/details/:detail_id/status", middleware.RequirePermission(entity.PermUpdateOrders), h.Order.UpdateLineStatus)
		orders.POST("/:id/cancel", middleware.RequirePermission(entity.PermCancelOrders), h.Order.Cancel)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:  deps.IdempotencyRepo,
		Clock: deps.Clock,
	})

	receipts := protected.Group("/receipts")
	{
		receipts.GET("", middleware.RequirePermission(entity.PermViewReceipts), h.Receipt.List)
		receipts.GET("/summary/today", middleware.RequirePermission(entity.PermViewReports), h.Receipt.DailySummary)
		receipts.GET("/:id", middleware.RequirePermission(entity.PermViewReceipts), h.Receipt.Get)
		receipts.POST("", middleware.RequirePermission(entity.PermIssueReceipts), idempotent, h.Receipt.Issue)
		receipts.POST("/:id/void", middleware.RequirePermission(entity.PermVoidReceipts), h.Receipt.Void)
	}
}

func registerCashRoutes(protected *gin.RouterGroup, h *Handlers) {
	cash := protected.Group("/cash-sessions")
	cash.Use(middleware.RequirePermission(entity.PermManageCash))
	{
		cash.GET("", h.CashSession.History)
		cash.GET("/current", h.CashSession.Current)
		cash.POST("", h.CashSession.Open)
		cash.GET("/:id", h.CashSession.Get)
		cash.POST("/:id/close", h.CashSession.Close)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", middleware.RequirePermission(entity.PermManageSettings), h.Settings.UpdateSettings)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequirePermission(entity.PermPrintDocuments))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/receipts/:id", h.Printer.PrintReceipt)
		printerGroup.POST("/orders/:id/pre-bill", h.Printer.PrintPreBill)
	}
}
