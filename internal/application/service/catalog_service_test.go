package service

import (
	"context"
	"testing"

	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_PreparedDropsStockFields(t *testing.T) {
	env := newTestEnv(t)
	stock := 40
	sku := "LOMO-01"

	p, err := env.products.CreateProduct(context.Background(), &ProductInput{
		CategoryID: env.category(t, "Fondos"),
		Name:       " Lomo saltado ",
		SalePrice:  decimal.RequireFromString("35.50"),
		Kind:       enum.ProductKindPrepared,
		Stock:      &stock,
		SKU:        &sku,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lomo saltado", p.Name)
	assert.Equal(t, int64(3550), p.SalePrice)
	assert.Nil(t, p.Stock)
	assert.Nil(t, p.SKU)
	assert.True(t, p.Active)
}

func TestCreateProduct_PurchasedValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	categoryID := env.category(t, "Bebidas")

	_, err := env.products.CreateProduct(ctx, &ProductInput{
		CategoryID: categoryID,
		Name:       "Inca Kola 500ml",
		SalePrice:  decimal.Zero,
		Kind:       enum.ProductKindPurchased,
	})
	require.Error(t, err)
	fields := map[string]bool{}
	for _, fe := range apperror.GetAppError(err).Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["sale_price"])
	assert.True(t, fields["stock"])
	assert.True(t, fields["min_stock"])

	stock, minStock := 24, 6
	sku := "IK-500"
	purchase := decimal.RequireFromString("2.80")
	input := &ProductInput{
		CategoryID:    categoryID,
		Name:          "Inca Kola 500ml",
		SalePrice:     decimal.RequireFromString("5.00"),
		Kind:          enum.ProductKindPurchased,
		PurchasePrice: &purchase,
		Stock:         &stock,
		MinStock:      &minStock,
		SKU:           &sku,
	}
	p, err := env.products.CreateProduct(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, p.PurchasePrice)
	assert.Equal(t, int64(280), *p.PurchasePrice)

	_, err = env.products.CreateProduct(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "sku", apperror.GetAppError(err).Errors[0].Field)
}

func TestAdjustStockAndLowStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cerveza := env.drink(t, "Cerveza", "12.00", 10)
	ceviche := env.dish(t, "Ceviche", "32.00")

	low, err := env.products.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	adjusted, err := env.products.AdjustStock(ctx, cerveza.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, *adjusted.Stock)

	low, err = env.products.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, cerveza.ID, low[0].ID)

	_, err = env.products.AdjustStock(ctx, ceviche.ID, 5)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	_, err = env.products.AdjustStock(ctx, cerveza.ID, -1)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestListProducts_SearchAndInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.dish(t, "Arroz con pato", "38.00")
	env.dish(t, "Arroz chaufa", "22.00")
	gone := env.dish(t, "Arroz tapado", "20.00")
	require.NoError(t, env.products.DeleteProduct(ctx, gone.ID))

	page, err := env.products.ListProducts(ctx, &domainRepo.ProductFilterParams{Search: "arroz"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	page, err = env.products.ListProducts(ctx, &domainRepo.ProductFilterParams{Search: "ARROZ", IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	categories := NewCategoryService(repository.NewCategoryRepository(env.db))

	entradas, err := categories.CreateCategory(ctx, &CategoryInput{Name: "Entradas"})
	require.NoError(t, err)
	_, err = categories.CreateCategory(ctx, &CategoryInput{Name: "Entradas"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = env.products.CreateProduct(ctx, &ProductInput{
		CategoryID: entradas.ID,
		Name:       "Causa limeña",
		SalePrice:  decimal.RequireFromString("18.00"),
		Kind:       enum.ProductKindPrepared,
	})
	require.NoError(t, err)

	menu, err := categories.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Products, 1)
	assert.Equal(t, "Causa limeña", menu[0].Products[0].Name)

	err = categories.DeleteCategory(ctx, entradas.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

	postres, err := categories.CreateCategory(ctx, &CategoryInput{Name: "Postres"})
	require.NoError(t, err)
	require.NoError(t, categories.DeleteCategory(ctx, postres.ID))

	active, err := categories.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	all, err := categories.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
