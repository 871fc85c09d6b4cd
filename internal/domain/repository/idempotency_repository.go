package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses for retried POST requests.
// Keys are scoped to the user and endpoint that presented them.
type IdempotencyRepository interface {
	// Find returns nil when no record exists for the key
	Find(ctx context.Context, userID uuid.UUID, endpoint, key string) (*entity.IdempotencyKey, error)
	// Save ignores a concurrent insert of the same key
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context, now time.Time) error
}
