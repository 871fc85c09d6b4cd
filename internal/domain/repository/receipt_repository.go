package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	// Create fails with apperror.ErrAlreadyIssued when the order already has a non-voided receipt
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetWithOrder(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetActiveByOrderID returns the order's non-voided receipt, or (nil, nil)
	GetActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	// MarkVoided flips an issued receipt to voided. It reports false when the receipt was not issued.
	MarkVoided(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// SumIssued totals issued receipts with IssuedAt in [from, to), optionally for one payment method
	SumIssued(ctx context.Context, from, to time.Time, method *enum.PaymentMethod) (int64, error)
	// Totals groups issued receipts in [from, to) by type and payment method
	Totals(ctx context.Context, from, to time.Time) ([]ReceiptTotal, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination    *pagination.PaginationParams
	Type          *enum.ReceiptType
	Status        *enum.ReceiptStatus
	PaymentMethod *enum.PaymentMethod
	From          *time.Time
	To            *time.Time
}

// ReceiptTotal is one aggregate row of issued receipts
type ReceiptTotal struct {
	Type          enum.ReceiptType
	PaymentMethod enum.PaymentMethod
	Count         int64
	Total         int64
}
