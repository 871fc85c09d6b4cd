package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) Find(ctx context.Context, userID uuid.UUID, endpoint, key string) (*entity.IdempotencyKey, error) {
	var record entity.IdempotencyKey
	err := dbFrom(ctx, r.db).
		Where("user_id = ? AND endpoint = ? AND key = ?", userID, endpoint, key).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *idempotencyRepository) Save(ctx context.Context, record *entity.IdempotencyKey) error {
	return dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return dbFrom(ctx, r.db).
		Where("expires_at < ?", now.UTC()).
		Delete(&entity.IdempotencyKey{}).Error
}
