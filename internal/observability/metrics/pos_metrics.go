package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	ReasonLockTimeout          = "db_lock_timeout"
	ReasonSerializationFailure = "serialization_failure"
	ReasonUniqueViolation      = "unique_violation"
	ReasonUnknown              = "unknown"
)

// Config carries the constant labels attached to every collector
type Config struct {
	ServiceName string
	Environment string
}

// POSMetrics exposes the point-of-sale counters and histograms.
// A nil *POSMetrics is valid and records nothing.
type POSMetrics struct {
	ordersCreated   *prometheus.CounterVec
	ordersCancelled prometheus.Counter
	receiptsIssued  *prometheus.CounterVec
	receiptsVoided  *prometheus.CounterVec
	issueFailures   *prometheus.CounterVec
	allocationWait  *prometheus.HistogramVec
	cashVariance    prometheus.Histogram
	sessionsOpened  prometheus.Counter
	sessionsClosed  prometheus.Counter
}

// New registers the collectors against registerer.
// A nil registerer falls back to the default one.
func New(registerer prometheus.Registerer, cfg Config) *POSMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "restaurant-pos"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &POSMetrics{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pos_orders_created_total",
			Help:        "Orders created by service type.",
			ConstLabels: constLabels,
		}, []string{"service_type"}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pos_orders_cancelled_total",
			Help:        "Orders cancelled before payment.",
			ConstLabels: constLabels,
		}),
		receiptsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pos_receipts_issued_total",
			Help:        "Receipts issued by document type and payment method.",
			ConstLabels: constLabels,
		}, []string{"type", "payment_method"}),
		receiptsVoided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pos_receipts_voided_total",
			Help:        "Receipts voided by document type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		issueFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pos_receipt_issue_failures_total",
			Help:        "Receipt issue attempts rolled back by low-cardinality reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		allocationWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "pos_sequence_allocation_seconds",
			Help:        "Time spent holding and waiting for the business configuration row lock.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"type"}),
		cashVariance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "pos_cash_session_variance",
			Help:        "Declared minus expected cash at session close, in currency units.",
			Buckets:     []float64{-100, -50, -20, -10, -5, -1, 0, 1, 5, 10, 20, 50, 100},
			ConstLabels: constLabels,
		}),
		sessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pos_cash_sessions_opened_total",
			Help:        "Cash sessions opened.",
			ConstLabels: constLabels,
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pos_cash_sessions_closed_total",
			Help:        "Cash sessions closed.",
			ConstLabels: constLabels,
		}),
	}

	registerer.MustRegister(
		m.ordersCreated,
		m.ordersCancelled,
		m.receiptsIssued,
		m.receiptsVoided,
		m.issueFailures,
		m.allocationWait,
		m.cashVariance,
		m.sessionsOpened,
		m.sessionsClosed,
	)
	return m
}

func (m *POSMetrics) OrderCreated(serviceType string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(serviceType).Inc()
}

func (m *POSMetrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

func (m *POSMetrics) ReceiptIssued(docType, paymentMethod string) {
	if m == nil {
		return
	}
	m.receiptsIssued.WithLabelValues(docType, paymentMethod).Inc()
}

func (m *POSMetrics) ReceiptVoided(docType string) {
	if m == nil {
		return
	}
	m.receiptsVoided.WithLabelValues(docType).Inc()
}

// IssueFailed records a rolled back issue attempt that was not a business rule rejection
func (m *POSMetrics) IssueFailed(err error) {
	if m == nil || err == nil {
		return
	}
	m.issueFailures.WithLabelValues(ClassifyDBError(err)).Inc()
}

func (m *POSMetrics) ObserveAllocation(docType string, d time.Duration) {
	if m == nil {
		return
	}
	m.allocationWait.WithLabelValues(docType).Observe(d.Seconds())
}

// ObserveCashVariance takes the variance in cents
func (m *POSMetrics) ObserveCashVariance(cents int64) {
	if m == nil {
		return
	}
	m.cashVariance.Observe(float64(cents) / 100)
}

func (m *POSMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsOpened.Inc()
}

func (m *POSMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsClosed.Inc()
}

// ClassifyDBError maps datastore failures to a metric label
func ClassifyDBError(err error) string {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ReasonUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03":
			return ReasonLockTimeout
		case "40001", "40P01":
			return ReasonSerializationFailure
		case "23505":
			return ReasonUniqueViolation
		}
	}
	return ReasonUnknown
}
