package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/database"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/printer"
	"github.com/sangkips/restaurant-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@cevicheria.pe"
	adminPassword = "admin-secret"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	router *gin.Engine
	clock  *clock.Fixed
}

func newTestServer(t *testing.T, rl config.RateLimitConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "restaurant-pos", Env: "test"},
		Business: config.BusinessConfig{
			Name:          "La Cevichería",
			TaxID:         "20123456789",
			Timezone:      "America/Lima",
			Currency:      "PEN",
			SeriesBoleta:  "B001",
			SeriesFactura: "F001",
			TaxRate:       "18.00",
			Tables:        4,
		},
		RateLimit: rl,
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Seed:      config.SeedConfig{AdminEmail: adminEmail, AdminPassword: adminPassword},
	}

	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, cfg))

	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	clk := clock.NewFixed(time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC), lima)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry, metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewBusinessConfigRepository(db)
	tableRepo := repository.NewTableRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	allocator := service.NewSequenceAllocator(configRepo, tx, m)
	receipts := service.NewReceiptService(receiptRepo, orderRepo, tableRepo, allocator, tx, cache.NewMemorySummaryCache(), clk, m)
	orders := service.NewOrderService(orderRepo, repository.NewOrderDetailRepository(db), productRepo, tableRepo, configRepo, tx, clk, m)
	nullPrinter, err := printer.New(printer.KindNone, "")
	require.NoError(t, err)

	handlers := &Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		User:        handler.NewUserHandler(service.NewUserService(userRepo, repository.NewRoleRepository(db), tx)),
		Table:       handler.NewTableHandler(service.NewTableService(tableRepo)),
		Product:     handler.NewProductHandler(service.NewProductService(productRepo, categoryRepo)),
		Category:    handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Order:       handler.NewOrderHandler(orders, clk),
		Receipt:     handler.NewReceiptHandler(receipts, clk),
		CashSession: handler.NewCashSessionHandler(service.NewCashSessionService(repository.NewCashSessionRepository(db), receiptRepo, tx, clk, m), clk),
		Settings:    handler.NewSettingsHandler(service.NewBusinessConfigService(configRepo, tx)),
		Printer:     handler.NewPrinterHandler(service.NewPrinterService(nullPrinter, receiptRepo, orderRepo, configRepo, clk, printer.Width80mm)),
	}

	limiter := middleware.NewRateLimiter(RateLimiterConfig(rl))
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Clock:           clk,
		Gatherer:        registry,
		RateLimiter:     limiter,
	})
	return &testServer{router: router, clock: clk}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Tokens.AccessToken)
	return data.Tokens.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type idOnly struct {
	ID uuid.UUID `json:"id"`
}

// seedMenu creates one prepared dish through the API and returns its id
func (s *testServer) seedMenu(t *testing.T, token, name, price string) uuid.UUID {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/categories", token, gin.H{"name": "cat-" + name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[idOnly](t, env.Data)

	w, env = s.do(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"category_id": category.ID,
		"name":        name,
		"sale_price":  price,
		"kind":        "prepared",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[idOnly](t, env.Data).ID
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w, env := s.do(t, http.MethodGet, "/api/v1/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = s.do(t, http.MethodGet, "/api/v1/tables", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Error)
}

func TestPermissionGuards(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)

	w, _ := s.do(t, http.MethodPost, "/api/v1/users", admin, gin.H{
		"name":     "Luis",
		"email":    "luis@cevicheria.pe",
		"password": "mozo-secret",
		"roles":    []string{"waiter"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	waiter := s.login(t, "luis@cevicheria.pe", "mozo-secret")

	w, _ = s.do(t, http.MethodGet, "/api/v1/tables", waiter, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/receipts"},
		{http.MethodPost, "/api/v1/cash-sessions"},
		{http.MethodPut, "/api/v1/settings"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/tables"},
	} {
		w, env := s.do(t, tc.method, tc.path, waiter, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "forbidden", env.Error, "%s %s", tc.method, tc.path)
	}
}

func TestValidationErrorsAreFieldLevel(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)

	w, env := s.do(t, http.MethodPost, "/api/v1/orders", admin, gin.H{"service_type": "picnic", "items": []any{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "validation_error", env.Error)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "service_type", env.Errors[0].Field)

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/not-a-uuid", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacturaCustomerFieldsUseResponseNames(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)
	jalea := s.seedMenu(t, admin, "Jalea", "45.00")

	w, env := s.do(t, http.MethodPost, "/api/v1/orders", admin, gin.H{
		"service_type": "takeout",
		"items":        []gin.H{{"product_id": jalea, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[idOnly](t, env.Data)

	fields := func(env envelope) []string {
		names := make([]string, 0, len(env.Errors))
		for _, fe := range env.Errors {
			names = append(names, fe.Field)
		}
		return names
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/receipts", admin, gin.H{
		"order_id": order.ID, "type": "factura", "payment_method": "card",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.ElementsMatch(t, []string{"customer_document", "customer_name"}, fields(env))

	w, env = s.do(t, http.MethodPost, "/api/v1/receipts", admin, gin.H{
		"order_id": order.ID, "type": "factura", "payment_method": "card",
		"customer_document": strings.Repeat("9", 21), "customer_name": "Inversiones Miraflores SAC",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, []string{"customer_document"}, fields(env))

	w, env = s.do(t, http.MethodPost, "/api/v1/receipts", admin, gin.H{
		"order_id": order.ID, "type": "factura", "payment_method": "card",
		"customer_document": "20601234567", "customer_name": "Inversiones Miraflores SAC",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "20601234567", decode[struct {
		CustomerDocument string `json:"customer_document"`
	}](t, env.Data).CustomerDocument)
}

func TestProductSKUFitsColumn(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)

	w, env := s.do(t, http.MethodPost, "/api/v1/categories", admin, gin.H{"name": "Bebidas"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[idOnly](t, env.Data).ID
	product := func(name, sku string) gin.H {
		return gin.H{
			"category_id": category, "name": name, "sale_price": "8.00",
			"kind": "purchased", "stock": 24, "min_stock": 6, "sku": sku,
		}
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/products", admin, product("Chicha morada", strings.Repeat("S", 51)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "sku", env.Errors[0].Field)

	sku := strings.Repeat("S", 50)
	w, env = s.do(t, http.MethodPost, "/api/v1/products", admin, product("Chicha morada", sku))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, sku, decode[struct {
		SKU string `json:"sku"`
	}](t, env.Data).SKU)
}

func TestSettingsTimezoneIsReadOnly(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)

	w, env := s.do(t, http.MethodPut, "/api/v1/settings", admin, gin.H{"timezone": "Asia/Tokyo", "tax_rate": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "timezone", env.Errors[0].Field)

	w, env = s.do(t, http.MethodGet, "/api/v1/settings", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[struct {
		Timezone string          `json:"timezone"`
		TaxRate  decimal.Decimal `json:"tax_rate"`
	}](t, env.Data)
	assert.Equal(t, "America/Lima", settings.Timezone)
	assert.True(t, settings.TaxRate.Equal(decimal.NewFromInt(18)), settings.TaxRate.String())

	w, _ = s.do(t, http.MethodPut, "/api/v1/settings", admin, gin.H{"tax_rate": "10"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestOrderToReceiptFlow(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)
	ceviche := s.seedMenu(t, admin, "Ceviche", "32.00")

	w, env := s.do(t, http.MethodPost, "/api/v1/cash-sessions", admin, gin.H{"opening_float": "100.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decode[idOnly](t, env.Data)

	orderBody := gin.H{
		"service_type": "takeout",
		"items":        []gin.H{{"product_id": ceviche, "quantity": 1}},
	}
	key := uuid.NewString()
	w, env = s.do(t, http.MethodPost, "/api/v1/orders", admin, orderBody, middleware.IdempotencyKeyHeader, key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
		Total  float64   `json:"total"`
	}](t, env.Data)
	assert.Equal(t, "pending", order.Status)
	assert.InDelta(t, 37.76, order.Total, 0.001)

	// a retried create replays the stored response instead of creating a second order
	w, env = s.do(t, http.MethodPost, "/api/v1/orders", admin, orderBody, middleware.IdempotencyKeyHeader, key)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, order.ID, decode[idOnly](t, env.Data).ID)

	w, _ = s.do(t, http.MethodPost, "/api/v1/orders", admin, gin.H{
		"service_type": "delivery",
		"items":        []gin.H{{"product_id": ceviche, "quantity": 2}},
	}, middleware.IdempotencyKeyHeader, key)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/orders/active", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idOnly](t, env.Data), 1)

	issue := gin.H{"order_id": order.ID, "type": "boleta", "payment_method": "cash"}
	w, env = s.do(t, http.MethodPost, "/api/v1/receipts", admin, issue)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode[struct {
		ID     uuid.UUID `json:"id"`
		Code   string    `json:"code"`
		Status string    `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "B001-000001", receipt.Code)
	assert.Equal(t, "issued", receipt.Status)

	w, env = s.do(t, http.MethodPost, "/api/v1/receipts", admin, issue)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_issued", env.Error)

	w, env = s.do(t, http.MethodGet, "/api/v1/receipts/summary/today", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[struct {
		Date         string          `json:"date"`
		ReceiptCount int64           `json:"receipt_count"`
		Total        decimal.Decimal `json:"total"`
	}](t, env.Data)
	assert.Equal(t, "2026-10-15", summary.Date)
	assert.Equal(t, int64(1), summary.ReceiptCount)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("37.76")), summary.Total.String())

	w, env = s.do(t, http.MethodPost, "/api/v1/receipts/"+receipt.ID.String()+"/void", admin, gin.H{"reason": "cliente pidió factura"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "voided", decode[struct {
		Status string `json:"status"`
	}](t, env.Data).Status)

	s.clock.Advance(6 * time.Hour)
	w, env = s.do(t, http.MethodPost, "/api/v1/cash-sessions/"+session.ID.String()+"/close", admin, gin.H{"declared_amount": "100.00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	closed := decode[struct {
		Status         string  `json:"status"`
		ExpectedAmount float64 `json:"expected_amount"`
		Variance       float64 `json:"variance"`
	}](t, env.Data)
	assert.Equal(t, "closed", closed.Status)
	assert.InDelta(t, 100.00, closed.ExpectedAmount, 0.001)
	assert.Zero(t, closed.Variance)
}

func TestDineInOrderOccupiesTable(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	admin := s.login(t, adminEmail, adminPassword)
	lomo := s.seedMenu(t, admin, "Lomo saltado", "35.50")

	w, env := s.do(t, http.MethodGet, "/api/v1/tables/free", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	free := decode[[]idOnly](t, env.Data)
	require.Len(t, free, 4)
	table := free[0].ID

	body := gin.H{
		"service_type": "dine_in",
		"table_id":     table,
		"guests":       2,
		"items":        []gin.H{{"product_id": lomo, "quantity": 2}},
	}
	w, _ = s.do(t, http.MethodPost, "/api/v1/orders", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodGet, "/api/v1/tables/"+table.String(), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "occupied", decode[struct {
		Status string `json:"status"`
	}](t, env.Data).Status)

	w, env = s.do(t, http.MethodPost, "/api/v1/orders", admin, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", env.Error)
}

func TestRateLimitPerClient(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 2, Duration: 3600})

	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": adminEmail, "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
