package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const summaryDateLayout = "2006-01-02"

// ReceiptService issues and voids sales documents
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	orderRepo   repository.OrderRepository
	tableRepo   repository.TableRepository
	allocator   *SequenceAllocator
	transactor  repository.Transactor
	summaries   cache.SummaryCache
	clock       clock.Clock
	metrics     *metrics.POSMetrics
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	allocator *SequenceAllocator,
	transactor repository.Transactor,
	summaries cache.SummaryCache,
	clk clock.Clock,
	m *metrics.POSMetrics,
) *ReceiptService {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		tableRepo:   tableRepo,
		allocator:   allocator,
		transactor:  transactor,
		summaries:   summaries,
		clock:       clk,
		metrics:     m,
	}
}

// IssueReceiptInput represents the issue receipt input
type IssueReceiptInput struct {
	OrderID         uuid.UUID
	UserID          uuid.UUID
	Type            enum.ReceiptType
	PaymentMethod   enum.PaymentMethod
	CustomerDoc     *string
	CustomerName    *string
	CustomerAddress *string
}

// Issue creates the receipt for an order, allocates its number, marks the order paid and frees the table
func (s *ReceiptService) Issue(ctx context.Context, input *IssueReceiptInput) (*entity.Receipt, error) {
	if !input.Type.IsValid() {
		return nil, apperror.NewFieldValidationError("type", "invalid document type")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewFieldValidationError("payment_method", "invalid payment method")
	}

	now := s.clock.Now()
	receipt := &entity.Receipt{
		ID:              uuid.New(),
		OrderID:         input.OrderID,
		UserID:          input.UserID,
		Type:            input.Type,
		PaymentMethod:   input.PaymentMethod,
		Status:          enum.ReceiptStatusIssued,
		CustomerDoc:     trimmed(input.CustomerDoc),
		CustomerName:    trimmed(input.CustomerName),
		CustomerAddress: trimmed(input.CustomerAddress),
		IssuedAt:        now,
		CreatedAt:       now,
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		active, err := s.receiptRepo.GetActiveByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return apperror.ErrAlreadyIssued
		}

		if input.Type == enum.ReceiptTypeFactura {
			if err := validateFacturaCustomer(receipt); err != nil {
				return err
			}
		}

		alloc, err := s.allocator.Allocate(ctx, input.Type)
		if err != nil {
			return err
		}
		receipt.Series = alloc.Series
		receipt.Number = alloc.Number
		receipt.SubTotal = order.SubTotal
		receipt.Tax = order.Tax
		receipt.Total = order.Total

		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}

		order.Status = enum.OrderStatusPaid
		order.PaidAt = &now
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}
		if order.TableID != nil {
			return s.tableRepo.UpdateStatus(ctx, *order.TableID, enum.TableStatusFree)
		}
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			s.metrics.IssueFailed(err)
			logger.FromContext(ctx).Error("receipt issue rolled back",
				zap.String("order_id", input.OrderID.String()), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.ReceiptIssued(input.Type.String(), input.PaymentMethod.String())
	s.invalidateSummary(ctx, receipt.IssuedAt)
	logger.FromContext(ctx).Info("receipt issued",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("order_id", input.OrderID.String()),
		zap.String("code", receipt.Code()),
		zap.Int64("total_cents", receipt.Total))

	return s.receiptRepo.GetWithOrder(ctx, receipt.ID)
}

// Void marks an issued receipt as voided. The number stays consumed and the order is untouched.
func (s *ReceiptService) Void(ctx context.Context, id uuid.UUID, reason string) (*entity.Receipt, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.NewFieldValidationError("reason", "a reason is required to void a receipt")
	}

	var receipt *entity.Receipt
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if receipt.IsVoided() {
			return apperror.ErrAlreadyVoided
		}

		ok, err := s.receiptRepo.MarkVoided(ctx, id, reason, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apperror.ErrAlreadyVoided
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReceiptVoided(receipt.Type.String())
	s.invalidateSummary(ctx, receipt.IssuedAt)
	logger.FromContext(ctx).Info("receipt voided",
		zap.String("receipt_id", id.String()),
		zap.String("code", receipt.Code()))

	return s.receiptRepo.GetWithOrder(ctx, id)
}

// GetReceipt retrieves a receipt with its order
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(receipts, params.Pagination, total), nil
}

// DailySummary aggregates today's issued receipts in business time
func (s *ReceiptService) DailySummary(ctx context.Context) (*entity.DailySummary, error) {
	from, to := clock.Today(s.clock)
	day := from.In(s.clock.Location()).Format(summaryDateLayout)

	if cached, ok, err := s.summaries.Get(ctx, day); err != nil {
		logger.FromContext(ctx).Warn("summary cache read failed", zap.String("day", day), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	rows, err := s.receiptRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary := buildSummary(day, rows)

	if err := s.summaries.Set(ctx, day, summary); err != nil {
		logger.FromContext(ctx).Warn("summary cache write failed", zap.String("day", day), zap.Error(err))
	}
	return summary, nil
}

func (s *ReceiptService) invalidateSummary(ctx context.Context, issuedAt time.Time) {
	day := issuedAt.In(s.clock.Location()).Format(summaryDateLayout)
	if err := s.summaries.Invalidate(ctx, day); err != nil {
		logger.FromContext(ctx).Warn("summary cache invalidation failed", zap.String("day", day), zap.Error(err))
	}
}

func buildSummary(day string, rows []repository.ReceiptTotal) *entity.DailySummary {
	byType := map[string]*entity.SummaryBucket{}
	byMethod := map[string]*entity.SummaryBucket{}
	summary := &entity.DailySummary{Date: day, Total: decimal.Zero}

	for _, row := range rows {
		amount := fromCents(row.Total)
		summary.ReceiptCount += row.Count
		summary.Total = summary.Total.Add(amount)
		addBucket(byType, row.Type.String(), row.Count, amount)
		addBucket(byMethod, row.PaymentMethod.String(), row.Count, amount)
	}

	summary.ByType = sortedBuckets(byType)
	summary.ByPaymentMethod = sortedBuckets(byMethod)
	return summary
}

func addBucket(buckets map[string]*entity.SummaryBucket, key string, count int64, amount decimal.Decimal) {
	b, ok := buckets[key]
	if !ok {
		b = &entity.SummaryBucket{Key: key, Total: decimal.Zero}
		buckets[key] = b
	}
	b.Count += count
	b.Total = b.Total.Add(amount)
}

func sortedBuckets(buckets map[string]*entity.SummaryBucket) []entity.SummaryBucket {
	out := make([]entity.SummaryBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func validateFacturaCustomer(r *entity.Receipt) error {
	var fieldErrors []apperror.FieldError
	if r.CustomerDoc == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_document", Message: "required for facturas"})
	}
	if r.CustomerName == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "required for facturas"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// trimmed returns nil for blank strings
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
