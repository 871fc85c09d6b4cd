package request

import "github.com/google/uuid"

// OrderItemRequest is one line of an order
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes"`
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	ServiceType string             `json:"service_type" binding:"required"`
	TableID     *uuid.UUID         `json:"table_id"`
	Guests      int                `json:"guests" binding:"min=0"`
	Notes       *string            `json:"notes"`
	Items       []OrderItemRequest `json:"items" binding:"required,dive"`
}

// AddItemsRequest appends lines to an open order
type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,dive"`
}

// StatusRequest carries a target state name for orders, order lines and tables
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilterRequest represents order filter parameters. Dates are YYYY-MM-DD in business time.
type OrderFilterRequest struct {
	Status      string `form:"status"`
	ServiceType string `form:"service_type"`
	TableID     string `form:"table_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}
