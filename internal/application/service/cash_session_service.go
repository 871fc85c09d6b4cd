package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashSessionService opens, reconciles and reports cashier shifts
type CashSessionService struct {
	sessionRepo repository.CashSessionRepository
	receiptRepo repository.ReceiptRepository
	transactor  repository.Transactor
	clock       clock.Clock
	metrics     *metrics.POSMetrics
}

// NewCashSessionService creates a new cash session service
func NewCashSessionService(
	sessionRepo repository.CashSessionRepository,
	receiptRepo repository.ReceiptRepository,
	transactor repository.Transactor,
	clk clock.Clock,
	m *metrics.POSMetrics,
) *CashSessionService {
	return &CashSessionService{
		sessionRepo: sessionRepo,
		receiptRepo: receiptRepo,
		transactor:  transactor,
		clock:       clk,
		metrics:     m,
	}
}

// CloseCashSessionInput represents the close session input. Declared is in cents.
type CloseCashSessionInput struct {
	SessionID uuid.UUID
	ActorID   uuid.UUID
	Declared  int64
	Notes     *string
}

// CurrentSession is the live view of a cashier's open session
type CurrentSession struct {
	Open           bool                `json:"open"`
	Session        *entity.CashSession `json:"session,omitempty"`
	CashSales      decimal.Decimal     `json:"cash_sales"`
	ExpectedAmount decimal.Decimal     `json:"expected_amount"`
}

// CashSessionDetail is a session with the receipts of its opening day
type CashSessionDetail struct {
	Session         *entity.CashSession    `json:"session"`
	ReceiptCount    int64                  `json:"receipt_count"`
	TotalSales      decimal.Decimal        `json:"total_sales"`
	ByPaymentMethod []entity.SummaryBucket `json:"by_payment_method"`
}

// Open starts a shift for the cashier with the given opening float in cents
func (s *CashSessionService) Open(ctx context.Context, cashierID uuid.UUID, openingFloat int64, notes *string) (*entity.CashSession, error) {
	if openingFloat < 0 {
		return nil, apperror.NewFieldValidationError("opening_float", "must not be negative")
	}

	now := s.clock.Now()
	session := &entity.CashSession{
		ID:             uuid.New(),
		CashierID:      cashierID,
		OpenedAt:       now,
		OpeningFloat:   openingFloat,
		ExpectedAmount: openingFloat,
		Notes:          trimmed(notes),
		Status:         enum.CashSessionStatusOpen,
		CreatedAt:      now,
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.sessionRepo.GetOpenByCashier(ctx, cashierID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.ErrSessionAlreadyOpen
		}
		// The partial unique index turns a concurrent open into ErrSessionAlreadyOpen as well
		return s.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionOpened()
	logger.FromContext(ctx).Info("cash session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("cashier_id", cashierID.String()),
		zap.Int64("opening_float_cents", openingFloat))

	return session, nil
}

// Close reconciles the session against the cash receipts of its opening day
func (s *CashSessionService) Close(ctx context.Context, input *CloseCashSessionInput) (*entity.CashSession, error) {
	if input.Declared < 0 {
		return nil, apperror.NewFieldValidationError("declared_amount", "must not be negative")
	}

	var session *entity.CashSession
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.GetForUpdate(ctx, input.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Cash session")
		}
		if session.CashierID != input.ActorID {
			return apperror.NewForbiddenError("Only the cashier who opened the session can close it")
		}
		if !session.IsOpen() {
			return apperror.ErrAlreadyClosed
		}

		cashSales, err := s.cashSales(ctx, session.OpenedAt)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		declared := input.Declared
		session.ExpectedAmount = session.OpeningFloat + cashSales
		session.DeclaredAmount = &declared
		session.Variance = declared - session.ExpectedAmount
		session.ClosedAt = &now
		session.Status = enum.CashSessionStatusClosed
		if notes := trimmed(input.Notes); notes != nil {
			session.Notes = notes
		}
		return s.sessionRepo.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionClosed()
	s.metrics.ObserveCashVariance(session.Variance)
	log := logger.FromContext(ctx).With(
		zap.String("session_id", session.ID.String()),
		zap.Int64("expected_cents", session.ExpectedAmount),
		zap.Int64("variance_cents", session.Variance))
	if session.Variance != 0 {
		log.Warn("cash session closed with variance")
	} else {
		log.Info("cash session closed")
	}

	return session, nil
}

// CurrentStatus returns the cashier's open session with a live expected amount. Nothing is persisted.
func (s *CashSessionService) CurrentStatus(ctx context.Context, cashierID uuid.UUID) (*CurrentSession, error) {
	session, err := s.sessionRepo.GetOpenByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &CurrentSession{Open: false, CashSales: decimal.Zero, ExpectedAmount: decimal.Zero}, nil
	}

	cashSales, err := s.cashSales(ctx, session.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &CurrentSession{
		Open:           true,
		Session:        session,
		CashSales:      fromCents(cashSales),
		ExpectedAmount: fromCents(session.OpeningFloat + cashSales),
	}, nil
}

// History lists sessions. Non-admins only see their own.
func (s *CashSessionService) History(ctx context.Context, actorID uuid.UUID, isAdmin bool, params *repository.CashSessionFilterParams) (*pagination.PaginatedResult[entity.CashSession], error) {
	if !isAdmin {
		params.CashierID = &actorID
	}
	sessions, total, err := s.sessionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(sessions, params.Pagination, total), nil
}

// GetDetail returns a session with the payment-method breakdown of its opening day
func (s *CashSessionService) GetDetail(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*CashSessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	if !isAdmin && session.CashierID != actorID {
		return nil, apperror.NewForbiddenError("You can only view your own cash sessions")
	}

	from, to := clock.DayBounds(session.OpenedAt, s.clock.Location())
	rows, err := s.receiptRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byMethod := map[string]*entity.SummaryBucket{}
	detail := &CashSessionDetail{Session: session, TotalSales: decimal.Zero}
	for _, row := range rows {
		amount := fromCents(row.Total)
		detail.ReceiptCount += row.Count
		detail.TotalSales = detail.TotalSales.Add(amount)
		addBucket(byMethod, row.PaymentMethod.String(), row.Count, amount)
	}
	detail.ByPaymentMethod = sortedBuckets(byMethod)
	return detail, nil
}

// cashSales sums issued cash receipts dated on the business day containing openedAt
func (s *CashSessionService) cashSales(ctx context.Context, openedAt time.Time) (int64, error) {
	from, to := clock.DayBounds(openedAt, s.clock.Location())
	cash := enum.PaymentMethodCash
	return s.receiptRepo.SumIssued(ctx, from, to, &cash)
}
