package repository

import (
	"context"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
)

// BusinessConfigRepository gives access to the singleton configuration row.
// Both getters return (nil, nil) when the row does not exist.
type BusinessConfigRepository interface {
	Get(ctx context.Context) (*entity.BusinessConfig, error)
	// GetForUpdate reads the row holding an exclusive lock until the surrounding transaction ends
	GetForUpdate(ctx context.Context) (*entity.BusinessConfig, error)
	Create(ctx context.Context, cfg *entity.BusinessConfig) error
	Update(ctx context.Context, cfg *entity.BusinessConfig) error
}
