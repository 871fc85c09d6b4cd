package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return dbFrom(ctx, r.db).Omit("User", "Table", "Receipts").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).
		Preload("User").
		Preload("Table").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Details.Product").
		Preload("Receipts").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).Scopes(ForUpdate).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return dbFrom(ctx, r.db).
		Omit("User", "Table", "Details", "Receipts").
		Save(order).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Order{}).
		Scopes(Between("created_at", params.From, params.To))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ServiceType != nil {
		query = query.Where("service_type = ?", *params.ServiceType)
	}
	if params.TableID != nil {
		query = query.Where("table_id = ?", *params.TableID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Table").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) ListByStatuses(ctx context.Context, statuses []enum.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	err := dbFrom(ctx, r.db).
		Where("status IN ?", statuses).
		Preload("Table").
		Preload("User").
		Preload("Details.Product").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListKitchen(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := dbFrom(ctx, r.db).
		Where("status IN ?", []enum.OrderStatus{enum.OrderStatusPending, enum.OrderStatusInPreparation}).
		Preload("Table").
		Preload("Details", "status IN ?", []enum.LineStatus{enum.LineStatusPending, enum.LineStatusPreparing}).
		Preload("Details.Product").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

type orderDetailRepository struct {
	db *gorm.DB
}

// NewOrderDetailRepository creates a new order detail repository
func NewOrderDetailRepository(db *gorm.DB) domainRepo.OrderDetailRepository {
	return &orderDetailRepository{db: db}
}

func (r *orderDetailRepository) CreateBatch(ctx context.Context, details []entity.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Omit("Product").Create(&details).Error
}

func (r *orderDetailRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDetail, error) {
	var details []entity.OrderDetail
	err := dbFrom(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *orderDetailRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderDetail, error) {
	var detail entity.OrderDetail
	err := dbFrom(ctx, r.db).First(&detail, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &detail, err
}

func (r *orderDetailRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.LineStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.OrderDetail{}).
		Where("id = ?", id).
		Update("status", status).Error
}
