package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_DineInRequiresTable(t *testing.T) {
	env := newTestEnv(t)
	ceviche := env.dish(t, "Ceviche", "32.00")

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		Items:       []OrderItemInput{{ProductID: ceviche.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, "table_id", apperror.GetAppError(err).Errors[0].Field)
}

func TestCreateOrder_RejectsEmptyItemsAndBadQuantities(t *testing.T) {
	env := newTestEnv(t)
	ceviche := env.dish(t, "Ceviche", "32.00")

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID: env.waiter, ServiceType: enum.ServiceTypeTakeout,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeTakeout,
		Items:       []OrderItemInput{{ProductID: ceviche.ID, Quantity: 0}},
	})
	require.Error(t, err)
	assert.Equal(t, "items.0.quantity", apperror.GetAppError(err).Errors[0].Field)
}

func TestCreateOrder_DineInOccupiesTableAndComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	table := env.table(t, 7)
	lomo := env.dish(t, "Lomo saltado", "35.50")
	chicha := env.drink(t, "Chicha morada", "8.00", 20)

	order, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Guests:      2,
		Items: []OrderItemInput{
			{ProductID: lomo.ID, Quantity: 2, Notes: strPtr("sin cebolla")},
			{ProductID: chicha.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	// 2 x 35.50 + 2 x 8.00 = 87.00; 18% = 15.66
	assert.Equal(t, int64(8700), order.SubTotal)
	assert.Equal(t, int64(1566), order.Tax)
	assert.Equal(t, int64(10266), order.Total)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	require.Len(t, order.Details, 2)
	assert.Equal(t, lomo.ID, order.Details[0].ProductID)
	assert.Equal(t, int64(3550), order.Details[0].UnitPrice)
	assert.Equal(t, enum.TableStatusOccupied, env.tableStatus(t, table.ID))
	assert.Equal(t, 18, env.stock(t, chicha.ID))
}

func TestCreateOrder_TableMustBeFree(t *testing.T) {
	env := newTestEnv(t)
	table := env.table(t, 3)
	ceviche := env.dish(t, "Ceviche", "32.00")

	input := &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Items:       []OrderItemInput{{ProductID: ceviche.ID, Quantity: 1}},
	}
	_, err := env.orders.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	_, err = env.orders.CreateOrder(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

	missing := uuid.New()
	input.TableID = &missing
	_, err = env.orders.CreateOrder(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateOrder_InsufficientStockPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	table := env.table(t, 1)
	inca := env.drink(t, "Inca Kola", "6.00", 5)
	cerveza := env.drink(t, "Cerveza", "12.00", 1)

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Items: []OrderItemInput{
			{ProductID: inca.ID, Quantity: 3},
			{ProductID: cerveza.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Cerveza")

	var orders, lines int64
	require.NoError(t, env.db.Model(&entity.Order{}).Count(&orders).Error)
	require.NoError(t, env.db.Model(&entity.OrderDetail{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
	assert.Equal(t, 5, env.stock(t, inca.ID))
	assert.Equal(t, 1, env.stock(t, cerveza.ID))
	assert.Equal(t, enum.TableStatusFree, env.tableStatus(t, table.ID))
}

func TestCreateOrder_RepeatedLinesCheckCombinedDemand(t *testing.T) {
	env := newTestEnv(t)
	agua := env.drink(t, "Agua", "3.00", 3)

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeTakeout,
		Items: []OrderItemInput{
			{ProductID: agua.ID, Quantity: 2},
			{ProductID: agua.ID, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 3, env.stock(t, agua.ID))
}

func TestCreateOrder_InactiveProductIsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ceviche := env.dish(t, "Ceviche", "32.00")
	require.NoError(t, env.products.DeleteProduct(context.Background(), ceviche.ID))

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeTakeout,
		Items:       []OrderItemInput{{ProductID: ceviche.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperror.ErrProductUnavailable)

	_, err = env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeTakeout,
		Items:       []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "items.0.product_id", apperror.GetAppError(err).Errors[0].Field)
}

func TestCancelOrder_RestoresStockAndFreesTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	table := env.table(t, 4)
	gaseosa := env.drink(t, "Gaseosa", "5.00", 10)
	arroz := env.dish(t, "Arroz chaufa", "22.00")

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Items: []OrderItemInput{
			{ProductID: gaseosa.ID, Quantity: 3},
			{ProductID: arroz.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, env.stock(t, gaseosa.ID))

	cancelled, err := env.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, env.stock(t, gaseosa.ID))
	assert.Equal(t, enum.TableStatusFree, env.tableStatus(t, table.ID))

	_, err = env.orders.CancelOrder(ctx, order.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	assert.Equal(t, 10, env.stock(t, gaseosa.ID))
}

func TestAddItems_RecomputesTotalsFromAllLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	causa := env.dish(t, "Causa", "18.50")
	papa := env.dish(t, "Papa a la huancaína", "15.00")
	order := env.takeoutOrder(t, causa)
	env.clock.Advance(time.Minute)

	updated, err := env.orders.AddItems(ctx, order.ID, []OrderItemInput{{ProductID: papa.ID, Quantity: 2}})
	require.NoError(t, err)

	// 18.50 + 2 x 15.00 = 48.50; 18% = 8.73
	assert.Equal(t, int64(4850), updated.SubTotal)
	assert.Equal(t, int64(873), updated.Tax)
	assert.Equal(t, int64(5723), updated.Total)
	require.Len(t, updated.Details, 2)
	assert.Equal(t, causa.ID, updated.Details[0].ProductID)
}

func TestAddItems_KeepsTaxOfExistingLinesAfterRateChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	arroz := env.dish(t, "Arroz con mariscos", "100.00")

	order := env.takeoutOrder(t, arroz)
	require.Equal(t, int64(1800), order.Tax)

	rate := decimal.RequireFromString("10")
	_, err := env.config.Update(ctx, &UpdateBusinessConfigInput{TaxRate: &rate})
	require.NoError(t, err)

	updated, err := env.orders.AddItems(ctx, order.ID, []OrderItemInput{{ProductID: arroz.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.SubTotal)
	assert.Equal(t, int64(2800), updated.Tax)
	assert.Equal(t, int64(22800), updated.Total)

	require.Len(t, updated.Details, 2)
	rates := []string{updated.Details[0].TaxRate.StringFixed(2), updated.Details[1].TaxRate.StringFixed(2)}
	assert.ElementsMatch(t, []string{"18.00", "10.00"}, rates)
}

func TestAddItems_RejectsTerminalOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	causa := env.dish(t, "Causa", "18.50")
	order := env.takeoutOrder(t, causa)

	_, err := env.orders.ChangeState(ctx, order.ID, enum.OrderStatusPaid)
	require.NoError(t, err)

	_, err = env.orders.AddItems(ctx, order.ID, []OrderItemInput{{ProductID: causa.ID, Quantity: 1}})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestChangeState_PaidStampsAndFreesTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	table := env.table(t, 9)
	ceviche := env.dish(t, "Ceviche", "32.00")

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Items:       []OrderItemInput{{ProductID: ceviche.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	served, err := env.orders.ChangeState(ctx, order.ID, enum.OrderStatusServed)
	require.NoError(t, err)
	assert.Nil(t, served.PaidAt)
	assert.Equal(t, enum.TableStatusOccupied, env.tableStatus(t, table.ID))

	paid, err := env.orders.ChangeState(ctx, order.ID, enum.OrderStatusPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(env.clock.Now()))
	assert.Equal(t, enum.TableStatusFree, env.tableStatus(t, table.ID))
}

func TestUpdateLineStatus_MovesForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.takeoutOrder(t, env.dish(t, "Anticuchos", "20.00"))
	lineID := order.Details[0].ID

	line, err := env.orders.UpdateLineStatus(ctx, order.ID, lineID, enum.LineStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, enum.LineStatusPreparing, line.Status)

	_, err = env.orders.UpdateLineStatus(ctx, order.ID, lineID, enum.LineStatusPending)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

	_, err = env.orders.UpdateLineStatus(ctx, order.ID, uuid.New(), enum.LineStatusReady)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	kitchen, err := env.orders.KitchenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Len(t, kitchen[0].Details, 1)

	_, err = env.orders.UpdateLineStatus(ctx, order.ID, lineID, enum.LineStatusReady)
	require.NoError(t, err)
	kitchen, err = env.orders.KitchenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Empty(t, kitchen[0].Details)
}

func TestActiveOrders_ExcludesTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dish := env.dish(t, "Tallarines", "24.00")
	open := env.takeoutOrder(t, dish)
	done := env.takeoutOrder(t, dish)
	_, err := env.orders.CancelOrder(ctx, done.ID)
	require.NoError(t, err)

	active, err := env.orders.ActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)
}
