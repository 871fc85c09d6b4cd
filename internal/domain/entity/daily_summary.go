package entity

import "github.com/shopspring/decimal"

// DailySummary aggregates the issued receipts of one business day
type DailySummary struct {
	Date            string          `json:"date"`
	ReceiptCount    int64           `json:"receipt_count"`
	Total           decimal.Decimal `json:"total"`
	ByType          []SummaryBucket `json:"by_type"`
	ByPaymentMethod []SummaryBucket `json:"by_payment_method"`
}

// SummaryBucket is one group of a DailySummary
type SummaryBucket struct {
	Key   string          `json:"key"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}
