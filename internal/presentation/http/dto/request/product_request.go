package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest represents a product create or update request.
// Prices are decimal amounts in the business currency.
type ProductRequest struct {
	CategoryID    uuid.UUID        `json:"category_id" binding:"required"`
	Name          string           `json:"name" binding:"required,max=150"`
	Description   *string          `json:"description"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Kind          string           `json:"kind" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Stock         *int             `json:"stock"`
	MinStock      *int             `json:"min_stock"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	SKU           *string          `json:"sku" binding:"omitempty,max=50"`
	Active        *bool            `json:"active"`
}

// AdjustStockRequest sets the counted stock of a purchased product
type AdjustStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search          string `form:"search"`
	CategoryID      string `form:"category_id"`
	Kind            string `form:"kind"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}
