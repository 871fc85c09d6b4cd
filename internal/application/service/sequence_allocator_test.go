package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceAllocator_ConsecutiveNumbersPerType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.allocator.Allocate(ctx, enum.ReceiptTypeBoleta)
	require.NoError(t, err)
	second, err := env.allocator.Allocate(ctx, enum.ReceiptTypeBoleta)
	require.NoError(t, err)
	factura, err := env.allocator.Allocate(ctx, enum.ReceiptTypeFactura)
	require.NoError(t, err)

	assert.Equal(t, "B001", *first.Series)
	assert.Equal(t, int64(1), *first.Number)
	assert.Equal(t, int64(2), *second.Number)
	assert.Equal(t, "F001", *factura.Series)
	assert.Equal(t, int64(1), *factura.Number)

	cfg := env.businessConfig(t)
	assert.Equal(t, int64(2), cfg.LastBoletaNumber)
	assert.Equal(t, int64(1), cfg.LastFacturaNumber)
}

func TestSequenceAllocator_NoneIsUnnumbered(t *testing.T) {
	env := newTestEnv(t)

	alloc, err := env.allocator.Allocate(context.Background(), enum.ReceiptTypeNone)
	require.NoError(t, err)
	assert.Nil(t, alloc.Series)
	assert.Nil(t, alloc.Number)

	cfg := env.businessConfig(t)
	assert.Zero(t, cfg.LastBoletaNumber)
	assert.Zero(t, cfg.LastFacturaNumber)
}

func TestSequenceAllocator_DisabledType(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Model(&entity.BusinessConfig{}).Where("1 = 1").Update("issues_facturas", false).Error)

	_, err := env.allocator.Allocate(context.Background(), enum.ReceiptTypeFactura)
	assert.ErrorIs(t, err, apperror.ErrDocumentTypeDisabled)
	assert.Zero(t, env.businessConfig(t).LastFacturaNumber)

	_, err = env.allocator.Allocate(context.Background(), enum.ReceiptTypeBoleta)
	assert.NoError(t, err)
}

func TestSequenceAllocator_MissingConfiguration(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Where("1 = 1").Delete(&entity.BusinessConfig{}).Error)

	_, err := env.allocator.Allocate(context.Background(), enum.ReceiptTypeBoleta)
	assert.ErrorIs(t, err, apperror.ErrConfigurationMissing)
}

func TestSequenceAllocator_RolledBackCallerReleasesNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := env.allocator.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		alloc, err := env.allocator.Allocate(ctx, enum.ReceiptTypeBoleta)
		require.NoError(t, err)
		assert.Equal(t, int64(1), *alloc.Number)
		return boom
	})
	require.ErrorIs(t, err, boom)

	alloc, err := env.allocator.Allocate(ctx, enum.ReceiptTypeBoleta)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *alloc.Number)
}

func TestSequenceAllocator_ConcurrentAllocationsAreDistinctAndGapless(t *testing.T) {
	env := newTestEnv(t)
	const workers = 12

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alloc, err := env.allocator.Allocate(context.Background(), enum.ReceiptTypeBoleta)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, *alloc.Number)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n)
	}
	assert.Equal(t, int64(workers), env.businessConfig(t).LastBoletaNumber)
}
