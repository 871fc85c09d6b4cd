package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	// DecrementStock atomically decrements stock only if sufficient.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// IncrementStock returns quantities to stock (cancellations).
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	CategoryID      *uuid.UUID
	Kind            *enum.ProductKind
	IncludeInactive bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, includeInactive bool) ([]entity.Category, error)
	ListWithActiveProducts(ctx context.Context) ([]entity.Category, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}
