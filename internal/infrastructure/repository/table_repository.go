package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new dining table repository
func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *entity.DiningTable) error {
	return dbFrom(ctx, r.db).Create(table).Error
}

func (r *tableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	var table entity.DiningTable
	err := dbFrom(ctx, r.db).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*entity.DiningTable, error) {
	var table entity.DiningTable
	err := dbFrom(ctx, r.db).First(&table, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) Update(ctx context.Context, table *entity.DiningTable) error {
	return dbFrom(ctx, r.db).Omit("ActiveOrders").Save(table).Error
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.DiningTable{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *tableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.DiningTable{}, "id = ?", id).Error
}

func (r *tableRepository) List(ctx context.Context, params *domainRepo.TableFilterParams) ([]entity.DiningTable, error) {
	var tables []entity.DiningTable
	query := dbFrom(ctx, r.db)

	if params != nil {
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
		if params.Location != "" {
			query = query.Where("location = ?", params.Location)
		}
		if params.MinCapacity > 0 {
			query = query.Where("capacity >= ?", params.MinCapacity)
		}
	}

	err := query.Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) ListOccupied(ctx context.Context) ([]entity.DiningTable, error) {
	var tables []entity.DiningTable
	err := dbFrom(ctx, r.db).
		Where("status = ?", enum.TableStatusOccupied).
		Preload("ActiveOrders", "status IN ?", enum.ActiveOrderStatuses()).
		Preload("ActiveOrders.Details.Product").
		Order("number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepository) CountByStatus(ctx context.Context) (map[enum.TableStatus]int64, error) {
	var rows []struct {
		Status enum.TableStatus
		Count  int64
	}
	err := dbFrom(ctx, r.db).Model(&entity.DiningTable{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enum.TableStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *tableRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Order{}).Where("table_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}
