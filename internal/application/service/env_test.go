package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/database"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires every service against a private in-memory SQLite database
type testEnv struct {
	db       *gorm.DB
	clock    *clock.Fixed
	registry *prometheus.Registry
	summary  *cache.MemorySummaryCache

	allocator *SequenceAllocator
	orders    *OrderService
	receipts  *ReceiptService
	cash      *CashSessionService
	tables    *TableService
	products  *ProductService
	config    *BusinessConfigService

	cashier uuid.UUID
	waiter  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedBusinessConfig(db, config.BusinessConfig{
		Name:          "La Cevichería",
		TaxID:         "20123456789",
		Timezone:      "America/Lima",
		Currency:      "PEN",
		SeriesBoleta:  "B001",
		SeriesFactura: "F001",
		TaxRate:       "18.00",
	}))

	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	clk := clock.NewFixed(time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC), lima)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry, metrics.Config{ServiceName: "restaurant-pos", Environment: "test"})
	summary := cache.NewMemorySummaryCache()

	tx := repository.NewTransactor(db)
	configRepo := repository.NewBusinessConfigRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	detailRepo := repository.NewOrderDetailRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tableRepo := repository.NewTableRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)

	allocator := NewSequenceAllocator(configRepo, tx, m)
	env := &testEnv{
		db:        db,
		clock:     clk,
		registry:  registry,
		summary:   summary,
		allocator: allocator,
		orders:    NewOrderService(orderRepo, detailRepo, productRepo, tableRepo, configRepo, tx, clk, m),
		receipts:  NewReceiptService(receiptRepo, orderRepo, tableRepo, allocator, tx, summary, clk, m),
		cash:      NewCashSessionService(sessionRepo, receiptRepo, tx, clk, m),
		tables:    NewTableService(tableRepo),
		products:  NewProductService(productRepo, categoryRepo),
		config:    NewBusinessConfigService(configRepo, tx),
	}
	env.cashier = env.user(t, "Rosa", "rosa@example.com")
	env.waiter = env.user(t, "Luis", "luis@example.com")
	return env
}

func (e *testEnv) user(t *testing.T, name, email string) uuid.UUID {
	t.Helper()
	u := &entity.User{Name: name, Email: email, Password: "x", Active: true}
	require.NoError(t, e.db.Create(u).Error)
	return u.ID
}

func (e *testEnv) table(t *testing.T, number int) *entity.DiningTable {
	t.Helper()
	table, err := e.tables.CreateTable(context.Background(), &TableInput{Number: number, Capacity: 4})
	require.NoError(t, err)
	return table
}

func (e *testEnv) category(t *testing.T, name string) uuid.UUID {
	t.Helper()
	c := &entity.Category{Name: name, Active: true}
	require.NoError(t, e.db.Create(c).Error)
	return c.ID
}

// dish creates a prepared product; price is in soles, e.g. "25.00"
func (e *testEnv) dish(t *testing.T, name, price string) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(context.Background(), &ProductInput{
		CategoryID: e.category(t, "cat-"+name),
		Name:       name,
		SalePrice:  decimal.RequireFromString(price),
		Kind:       enum.ProductKindPrepared,
	})
	require.NoError(t, err)
	return p
}

// drink creates a purchased product with tracked stock
func (e *testEnv) drink(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	minStock := 2
	p, err := e.products.CreateProduct(context.Background(), &ProductInput{
		CategoryID: e.category(t, "cat-"+name),
		Name:       name,
		SalePrice:  decimal.RequireFromString(price),
		Kind:       enum.ProductKindPurchased,
		Stock:      &stock,
		MinStock:   &minStock,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p entity.Product
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	require.NotNil(t, p.Stock)
	return *p.Stock
}

func (e *testEnv) businessConfig(t *testing.T) *entity.BusinessConfig {
	t.Helper()
	var cfg entity.BusinessConfig
	require.NoError(t, e.db.First(&cfg).Error)
	return &cfg
}

func (e *testEnv) tableStatus(t *testing.T, id uuid.UUID) enum.TableStatus {
	t.Helper()
	var table entity.DiningTable
	require.NoError(t, e.db.First(&table, "id = ?", id).Error)
	return table.Status
}

// takeoutOrder creates a counter order for the given products, one unit each
func (e *testEnv) takeoutOrder(t *testing.T, products ...*entity.Product) *entity.Order {
	t.Helper()
	items := make([]OrderItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, OrderItemInput{ProductID: p.ID, Quantity: 1})
	}
	order, err := e.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      e.waiter,
		ServiceType: enum.ServiceTypeTakeout,
		Items:       items,
	})
	require.NoError(t, err)
	return order
}

func strPtr(s string) *string { return &s }
