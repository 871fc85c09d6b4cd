package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"gorm.io/gorm"
)

type cashSessionRepository struct {
	db *gorm.DB
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *gorm.DB) domainRepo.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

func (r *cashSessionRepository) Create(ctx context.Context, session *entity.CashSession) error {
	err := dbFrom(ctx, r.db).Omit("Cashier").Create(session).Error
	if isUniqueViolation(err) {
		return apperror.ErrSessionAlreadyOpen
	}
	return err
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := dbFrom(ctx, r.db).Preload("Cashier").First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := dbFrom(ctx, r.db).Scopes(ForUpdate).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := dbFrom(ctx, r.db).
		Where("cashier_id = ? AND status = ?", cashierID, enum.CashSessionStatusOpen).
		Preload("Cashier").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) Update(ctx context.Context, session *entity.CashSession) error {
	return dbFrom(ctx, r.db).Omit("Cashier").Save(session).Error
}

func (r *cashSessionRepository) List(ctx context.Context, params *domainRepo.CashSessionFilterParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.CashSession{}).
		Scopes(Between("opened_at", params.From, params.To))

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Cashier").
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}

// isUniqueViolation recognises duplicate-key failures from postgres and sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// violatesIndex reports a duplicate-key failure on one specific index.
// SQLite names the offending columns instead of the index, hence sqliteCols.
func violatesIndex(err error, index, sqliteCols string) bool {
	if !isUniqueViolation(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == index
	}
	return strings.Contains(err.Error(), sqliteCols)
}
