package service

import (
	"context"
	"time"

	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"go.uber.org/zap"
)

// Allocation is the document identifier handed out for one receipt.
// Both fields are nil for unnumbered receipts.
type Allocation struct {
	Series *string
	Number *int64
}

// SequenceAllocator hands out gapless-per-commit document numbers from the
// counters stored on the business configuration row.
type SequenceAllocator struct {
	configRepo repository.BusinessConfigRepository
	transactor repository.Transactor
	metrics    *metrics.POSMetrics
}

// NewSequenceAllocator creates a new sequence allocator
func NewSequenceAllocator(
	configRepo repository.BusinessConfigRepository,
	transactor repository.Transactor,
	m *metrics.POSMetrics,
) *SequenceAllocator {
	return &SequenceAllocator{
		configRepo: configRepo,
		transactor: transactor,
		metrics:    m,
	}
}

// Allocate reserves the next number for docType. When called inside a
// transaction the configuration row stays locked until that transaction ends,
// so the number is only consumed if the caller commits.
func (a *SequenceAllocator) Allocate(ctx context.Context, docType enum.ReceiptType) (*Allocation, error) {
	if !docType.IsValid() {
		return nil, apperror.NewFieldValidationError("type", "invalid document type")
	}

	var alloc Allocation
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		start := time.Now()
		cfg, err := a.configRepo.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperror.ErrConfigurationMissing
		}
		if !cfg.Enabled(docType) {
			return apperror.ErrDocumentTypeDisabled
		}

		var series string
		var next int64
		switch docType {
		case enum.ReceiptTypeBoleta:
			cfg.LastBoletaNumber++
			series, next = cfg.SeriesBoleta, cfg.LastBoletaNumber
		case enum.ReceiptTypeFactura:
			cfg.LastFacturaNumber++
			series, next = cfg.SeriesFactura, cfg.LastFacturaNumber
		default:
			return nil
		}

		if err := a.configRepo.Update(ctx, cfg); err != nil {
			logger.FromContext(ctx).Error("failed to persist document counter",
				zap.String("type", docType.String()), zap.Error(err))
			return err
		}
		a.metrics.ObserveAllocation(docType.String(), time.Since(start))

		alloc.Series = &series
		alloc.Number = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}
