package cache

import (
	"context"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
)

// SummaryCache stores the daily receipt summary keyed by business date (YYYY-MM-DD)
type SummaryCache interface {
	Get(ctx context.Context, day string) (*entity.DailySummary, bool, error)
	Set(ctx context.Context, day string, value *entity.DailySummary) error
	Invalidate(ctx context.Context, day string) error
}

// NoopSummaryCache never hits
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*entity.DailySummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *entity.DailySummary) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
