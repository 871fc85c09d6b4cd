package entity

import "github.com/shopspring/decimal"

// toAmount converts a stored cent value to a two-decimal amount for API responses
func toAmount(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// optionalAmount is toAmount for nullable cent columns
func optionalAmount(cents *int64) *float64 {
	if cents == nil {
		return nil
	}
	v := toAmount(*cents)
	return &v
}
