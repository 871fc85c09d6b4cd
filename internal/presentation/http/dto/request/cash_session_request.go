package request

import "github.com/shopspring/decimal"

// OpenCashSessionRequest starts a shift with the counted opening float
type OpenCashSessionRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
	Notes        *string         `json:"notes"`
}

// CloseCashSessionRequest closes a shift with the counted cash
type CloseCashSessionRequest struct {
	DeclaredAmount *decimal.Decimal `json:"declared_amount" binding:"required"`
	Notes          *string          `json:"notes"`
}

// CashSessionFilterRequest represents cash session history filters
type CashSessionFilterRequest struct {
	Status  string `form:"status"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
