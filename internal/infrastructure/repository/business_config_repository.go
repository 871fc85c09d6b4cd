package repository

import (
	"context"
	"errors"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type businessConfigRepository struct {
	db *gorm.DB
}

// NewBusinessConfigRepository creates a new business configuration repository
func NewBusinessConfigRepository(db *gorm.DB) domainRepo.BusinessConfigRepository {
	return &businessConfigRepository{db: db}
}

func (r *businessConfigRepository) Get(ctx context.Context) (*entity.BusinessConfig, error) {
	return r.first(dbFrom(ctx, r.db))
}

func (r *businessConfigRepository) GetForUpdate(ctx context.Context) (*entity.BusinessConfig, error) {
	return r.first(dbFrom(ctx, r.db).Scopes(ForUpdate))
}

func (r *businessConfigRepository) first(db *gorm.DB) (*entity.BusinessConfig, error) {
	var cfg entity.BusinessConfig
	err := db.Order("created_at ASC").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

func (r *businessConfigRepository) Create(ctx context.Context, cfg *entity.BusinessConfig) error {
	return dbFrom(ctx, r.db).Create(cfg).Error
}

func (r *businessConfigRepository) Update(ctx context.Context, cfg *entity.BusinessConfig) error {
	return dbFrom(ctx, r.db).Save(cfg).Error
}
