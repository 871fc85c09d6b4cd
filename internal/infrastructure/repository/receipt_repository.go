package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	err := dbFrom(ctx, r.db).Omit("Order", "User").Create(receipt).Error
	if violatesIndex(err, "ux_receipts_active_order", "receipts.order_id") {
		return apperror.ErrAlreadyIssued
	}
	return err
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithOrder(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).
		Preload("User").
		Preload("Order.Table").
		Preload("Order.Details.Product").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).
		Where("order_id = ? AND status = ?", orderID, enum.ReceiptStatusIssued).
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return dbFrom(ctx, r.db).Omit("Order", "User").Save(receipt).Error
}

func (r *receiptRepository) MarkVoided(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Receipt{}).
		Where("id = ? AND status = ?", id, enum.ReceiptStatusIssued).
		Updates(map[string]interface{}{
			"status":      enum.ReceiptStatusVoided,
			"void_reason": reason,
			"voided_at":   at.UTC(),
			"updated_at":  at.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(Between("issued_at", params.From, params.To))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("User").
		Preload("Order.Table").
		Order("issued_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) SumIssued(ctx context.Context, from, to time.Time, method *enum.PaymentMethod) (int64, error) {
	var sum int64
	query := dbFrom(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(Between("issued_at", &from, &to)).
		Where("status = ?", enum.ReceiptStatusIssued)
	if method != nil {
		query = query.Where("payment_method = ?", *method)
	}
	err := query.Select("CAST(COALESCE(SUM(total), 0) AS BIGINT)").Scan(&sum).Error
	return sum, err
}

func (r *receiptRepository) Totals(ctx context.Context, from, to time.Time) ([]domainRepo.ReceiptTotal, error) {
	var rows []domainRepo.ReceiptTotal
	err := dbFrom(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(Between("issued_at", &from, &to)).
		Where("status = ?", enum.ReceiptStatusIssued).
		Select("type, payment_method, COUNT(*) AS count, CAST(COALESCE(SUM(total), 0) AS BIGINT) AS total").
		Group("type, payment_method").
		Scan(&rows).Error
	return rows, err
}
