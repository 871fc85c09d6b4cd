package cache

import (
	"context"
	"sync"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
)

// MemorySummaryCache keeps summaries in process. Used by tests and single-node setups.
type MemorySummaryCache struct {
	mu    sync.RWMutex
	items map[string]entity.DailySummary
}

func NewMemorySummaryCache() *MemorySummaryCache {
	return &MemorySummaryCache{items: make(map[string]entity.DailySummary)}
}

func (c *MemorySummaryCache) Get(_ context.Context, day string) (*entity.DailySummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[day]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *MemorySummaryCache) Set(_ context.Context, day string, value *entity.DailySummary) error {
	if value == nil {
		return nil
	}
	c.mu.Lock()
	c.items[day] = *value
	c.mu.Unlock()
	return nil
}

func (c *MemorySummaryCache) Invalidate(_ context.Context, day string) error {
	c.mu.Lock()
	delete(c.items, day)
	c.mu.Unlock()
	return nil
}
