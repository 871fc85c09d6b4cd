package request

import "github.com/google/uuid"

// IssueReceiptRequest represents a receipt issue request
type IssueReceiptRequest struct {
	OrderID         uuid.UUID `json:"order_id" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	PaymentMethod   string    `json:"payment_method" binding:"required"`
	CustomerDoc     *string   `json:"customer_document" binding:"omitempty,max=20"`
	CustomerName    *string   `json:"customer_name" binding:"omitempty,max=255"`
	CustomerAddress *string   `json:"customer_address" binding:"omitempty,max=255"`
}

// VoidReceiptRequest represents a receipt void request
type VoidReceiptRequest struct {
	Reason string `json:"reason"`
}

// ReceiptFilterRequest represents receipt filter parameters
type ReceiptFilterRequest struct {
	Type          string `form:"type"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	From          string `form:"from"`
	To            string `form:"to"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
