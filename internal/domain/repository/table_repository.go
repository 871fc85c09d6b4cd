package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
)

// TableRepository defines the interface for dining table data operations
type TableRepository interface {
	Create(ctx context.Context, table *entity.DiningTable) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error)
	GetByNumber(ctx context.Context, number int) (*entity.DiningTable, error)
	Update(ctx context.Context, table *entity.DiningTable) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *TableFilterParams) ([]entity.DiningTable, error)
	// ListOccupied returns occupied tables with their active orders preloaded
	ListOccupied(ctx context.Context) ([]entity.DiningTable, error)
	CountByStatus(ctx context.Context) (map[enum.TableStatus]int64, error)
	HasOrders(ctx context.Context, id uuid.UUID) (bool, error)
}

// TableFilterParams contains filtering parameters for table queries
type TableFilterParams struct {
	Status      *enum.TableStatus
	Location    string
	MinCapacity int
}
