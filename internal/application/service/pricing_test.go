package service

import (
	"testing"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTax(t *testing.T) {
	igv := decimal.RequireFromString("18")

	tests := []struct {
		name     string
		subTotal int64
		rate     decimal.Decimal
		want     int64
	}{
		{"exact", 10000, igv, 1800},
		{"rounds up", 3861, igv, 695},
		{"rounds down", 3856, igv, 694},
		{"half cent goes away from zero", 25, igv, 5},
		{"zero rate", 10000, decimal.Zero, 0},
		{"fractional rate", 10000, decimal.RequireFromString("10.5"), 1050},
		{"empty order", 0, igv, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTax(tt.subTotal, tt.rate))
		})
	}
}

func TestComputeTotals(t *testing.T) {
	igv := decimal.RequireFromString("18")
	lines := []entity.OrderDetail{
		{UnitPrice: 3550, Quantity: 2, TaxRate: igv},
		{UnitPrice: 800, Quantity: 3, TaxRate: igv},
	}

	totals := ComputeTotals(lines, 500)
	assert.Equal(t, int64(9500), totals.SubTotal)
	assert.Equal(t, int64(500), totals.Discount)
	assert.Equal(t, int64(1710), totals.Tax)
	assert.Equal(t, int64(10710), totals.Total)

	var order entity.Order
	totals.Apply(&order)
	assert.Equal(t, totals.Total, order.Total)
	assert.Equal(t, totals.Tax, order.Tax)
}

func TestComputeTotals_EachLineKeepsItsRate(t *testing.T) {
	lines := []entity.OrderDetail{
		{UnitPrice: 10000, Quantity: 1, TaxRate: decimal.RequireFromString("18.00")},
		{UnitPrice: 10000, Quantity: 1, TaxRate: decimal.RequireFromString("10")},
	}

	totals := ComputeTotals(lines, 0)
	assert.Equal(t, int64(20000), totals.SubTotal)
	assert.Equal(t, int64(2800), totals.Tax)
	assert.Equal(t, int64(22800), totals.Total)
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(3550), ToCents(decimal.RequireFromString("35.50")))
	assert.Equal(t, int64(1), ToCents(decimal.RequireFromString("0.005")))
	assert.Equal(t, "35.5", fromCents(3550).String())
	assert.Equal(t, "35.50", fromCents(3550).StringFixed(2))
}
