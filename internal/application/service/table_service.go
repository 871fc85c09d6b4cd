package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minTableCapacity = 1
	maxTableCapacity = 20
)

// TableService manages dining tables and their floor state
type TableService struct {
	tableRepo repository.TableRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository) *TableService {
	return &TableService{tableRepo: tableRepo}
}

// TableInput represents the create/update table input
type TableInput struct {
	Number   int
	Capacity int
	Location string
}

// TableSummary counts tables per state
type TableSummary struct {
	Total         int64           `json:"total"`
	Free          int64           `json:"free"`
	Occupied      int64           `json:"occupied"`
	Reserved      int64           `json:"reserved"`
	Maintenance   int64           `json:"maintenance"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
}

// CreateTable creates a new table in the free state
func (s *TableService) CreateTable(ctx context.Context, input *TableInput) (*entity.DiningTable, error) {
	if err := s.validate(ctx, uuid.Nil, input); err != nil {
		return nil, err
	}

	table := &entity.DiningTable{
		Number:   input.Number,
		Capacity: input.Capacity,
		Location: locationOrDefault(input.Location),
		Status:   enum.TableStatusFree,
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// GetTable retrieves a table by ID
func (s *TableService) GetTable(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}
	return table, nil
}

// ListTables lists tables with optional filters
func (s *TableService) ListTables(ctx context.Context, params *repository.TableFilterParams) ([]entity.DiningTable, error) {
	return s.tableRepo.List(ctx, params)
}

// FreeTables lists the tables that can take a new order
func (s *TableService) FreeTables(ctx context.Context) ([]entity.DiningTable, error) {
	free := enum.TableStatusFree
	return s.tableRepo.List(ctx, &repository.TableFilterParams{Status: &free})
}

// OccupiedTables lists occupied tables with their active orders
func (s *TableService) OccupiedTables(ctx context.Context) ([]entity.DiningTable, error) {
	return s.tableRepo.ListOccupied(ctx)
}

// UpdateTable edits number, capacity and location
func (s *TableService) UpdateTable(ctx context.Context, id uuid.UUID, input *TableInput) (*entity.DiningTable, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, id, input); err != nil {
		return nil, err
	}

	table.Number = input.Number
	table.Capacity = input.Capacity
	table.Location = locationOrDefault(input.Location)
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// ChangeStatus is the administrative override. Any state may be set from any state.
func (s *TableService) ChangeStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) (*entity.DiningTable, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldValidationError("status", "invalid table status")
	}
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.tableRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("table status overridden",
		zap.Int("number", table.Number),
		zap.String("from", table.Status.String()),
		zap.String("to", status.String()))

	table.Status = status
	return table, nil
}

// DeleteTable removes a free table that never had orders
func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if table.Status != enum.TableStatusFree {
		return apperror.NewInvalidStateError(fmt.Sprintf("Table %d is %s", table.Number, table.Status))
	}

	hasOrders, err := s.tableRepo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return apperror.NewInvalidStateError("Table has order history and cannot be deleted")
	}

	return s.tableRepo.Delete(ctx, id)
}

// Summary counts tables per state with the occupancy percentage
func (s *TableService) Summary(ctx context.Context) (*TableSummary, error) {
	counts, err := s.tableRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	summary := &TableSummary{
		Free:        counts[enum.TableStatusFree],
		Occupied:    counts[enum.TableStatusOccupied],
		Reserved:    counts[enum.TableStatusReserved],
		Maintenance: counts[enum.TableStatusMaintenance],
	}
	for _, n := range counts {
		summary.Total += n
	}

	summary.OccupancyRate = decimal.Zero
	if summary.Total > 0 {
		summary.OccupancyRate = decimal.NewFromInt(summary.Occupied).
			Mul(hundred).
			Div(decimal.NewFromInt(summary.Total)).
			Round(2)
	}
	return summary, nil
}

func (s *TableService) validate(ctx context.Context, id uuid.UUID, input *TableInput) error {
	var fieldErrors []apperror.FieldError
	if input.Number < 1 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "number", Message: "must be at least 1"})
	}
	if input.Capacity < minTableCapacity || input.Capacity > maxTableCapacity {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "capacity",
			Message: fmt.Sprintf("must be between %d and %d", minTableCapacity, maxTableCapacity),
		})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.tableRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return apperror.NewFieldValidationError("number", "a table with this number already exists")
	}
	return nil
}

func locationOrDefault(location string) string {
	if l := strings.TrimSpace(location); l != "" {
		return l
	}
	return entity.DefaultTableLocation
}
