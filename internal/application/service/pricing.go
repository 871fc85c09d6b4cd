package service

import (
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OrderTotals holds derived order amounts in cents
type OrderTotals struct {
	SubTotal int64
	Discount int64
	Tax      int64
	Total    int64
}

// ComputeTax applies a percentage rate to a cent amount, rounding half away from zero
func ComputeTax(subTotal int64, ratePercent decimal.Decimal) int64 {
	return decimal.NewFromInt(subTotal).Mul(ratePercent).Div(hundred).Round(0).IntPart()
}

// ComputeTotals derives the order amounts from its lines. Each line is taxed at the
// rate it was added with; lines sharing a rate are taxed on their combined subtotal.
func ComputeTotals(lines []entity.OrderDetail, discount int64) OrderTotals {
	var sub int64
	byRate := make(map[string]int64)
	rates := make(map[string]decimal.Decimal)
	for _, l := range lines {
		amount := l.UnitPrice * int64(l.Quantity)
		sub += amount
		key := l.TaxRate.String()
		byRate[key] += amount
		rates[key] = l.TaxRate
	}

	var tax int64
	for key, amount := range byRate {
		tax += ComputeTax(amount, rates[key])
	}
	return OrderTotals{
		SubTotal: sub,
		Discount: discount,
		Tax:      tax,
		Total:    sub - discount + tax,
	}
}

// Apply copies the totals onto the order
func (t OrderTotals) Apply(o *entity.Order) {
	o.SubTotal = t.SubTotal
	o.Discount = t.Discount
	o.Tax = t.Tax
	o.Total = t.Total
}

// ToCents converts a decimal currency amount to cents
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// fromCents converts cents to a two-decimal amount
func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
