package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create persists the order together with its Details
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate reads the order holding a row lock for the surrounding transaction
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListByStatuses(ctx context.Context, statuses []enum.OrderStatus) ([]entity.Order, error)
	// ListKitchen returns orders being prepared with only their unfinished lines
	ListKitchen(ctx context.Context) ([]entity.Order, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination  *pagination.PaginationParams
	Status      *enum.OrderStatus
	ServiceType *enum.ServiceType
	TableID     *uuid.UUID
	UserID      *uuid.UUID
	From        *time.Time
	To          *time.Time
}

// OrderDetailRepository defines the interface for order line operations
type OrderDetailRepository interface {
	CreateBatch(ctx context.Context, details []entity.OrderDetail) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.LineStatus) error
}
