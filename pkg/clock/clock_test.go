package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds_UsesBusinessLocation(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	// 02:00 UTC on the 16th is still the 15th in Lima (UTC-5)
	at := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	start, end := DayBounds(at, lima)

	assert.Equal(t, time.Date(2026, 10, 15, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 16, 5, 0, 0, 0, time.UTC), end)
}

func TestDayBounds_NilLocationIsUTC(t *testing.T) {
	at := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)
	start, end := DayBounds(at, nil)

	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestFixed_Advance(t *testing.T) {
	c := NewFixed(time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC), nil)
	c.Advance(time.Hour)
	assert.Equal(t, 16, c.Now().Hour())
}
