package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
)

// CashSessionRepository defines the interface for cash session data operations
type CashSessionRepository interface {
	// Create fails with apperror.ErrSessionAlreadyOpen when the cashier already has an open session
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashSession, error)
	Update(ctx context.Context, session *entity.CashSession) error
	List(ctx context.Context, params *CashSessionFilterParams) ([]entity.CashSession, int64, error)
}

// CashSessionFilterParams contains filtering parameters for session history
type CashSessionFilterParams struct {
	Pagination *pagination.PaginationParams
	CashierID  *uuid.UUID
	Status     *enum.CashSessionStatus
	From       *time.Time
	To         *time.Time
}
