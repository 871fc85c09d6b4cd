package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ SummaryCache = NoopSummaryCache{}
	_ SummaryCache = (*MemorySummaryCache)(nil)
	_ SummaryCache = (*RedisSummaryCache)(nil)
)

func TestNoopSummaryCache_NeverHits(t *testing.T) {
	c := NoopSummaryCache{}
	require.NoError(t, c.Set(context.Background(), "2026-10-15", &entity.DailySummary{}))

	got, ok, err := c.Get(context.Background(), "2026-10-15")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMemorySummaryCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySummaryCache()
	summary := &entity.DailySummary{Date: "2026-10-15", ReceiptCount: 2, Total: decimal.RequireFromString("75.50")}

	require.NoError(t, c.Set(ctx, summary.Date, summary))
	got, ok, err := c.Get(ctx, summary.Date)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ReceiptCount)
	assert.True(t, got.Total.Equal(summary.Total))

	require.NoError(t, c.Invalidate(ctx, summary.Date))
	_, ok, err = c.Get(ctx, summary.Date)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDailySummary_JSONKeepsCents(t *testing.T) {
	in := entity.DailySummary{
		Date:  "2026-10-15",
		Total: decimal.RequireFromString("145.50"),
		ByPaymentMethod: []entity.SummaryBucket{
			{Key: "cash", Count: 1, Total: decimal.RequireFromString("45.50")},
		},
	}
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	var out entity.DailySummary
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.True(t, out.Total.Equal(in.Total))
	assert.Equal(t, "45.5", out.ByPaymentMethod[0].Total.String())
}

func TestSummaryKey(t *testing.T) {
	assert.Equal(t, "pos:receipts:summary:2026-10-15", summaryKey("2026-10-15"))
}
