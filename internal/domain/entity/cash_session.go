package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// CashSession is a cashier's working shift, reconciled at close against cash receipts.
// A partial unique index keeps one open session per cashier.
type CashSession struct {
	ID             uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CashierID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"cashier_id"`
	OpenedAt       time.Time              `gorm:"not null;index" json:"opened_at"`
	ClosedAt       *time.Time             `json:"closed_at,omitempty"`
	OpeningFloat   int64                  `gorm:"not null" json:"-"` // Stored in cents
	ExpectedAmount int64                  `gorm:"not null;default:0" json:"-"`
	DeclaredAmount *int64                 `json:"-"`
	Variance       int64                  `gorm:"not null;default:0" json:"-"`
	Notes          *string                `gorm:"type:text" json:"notes,omitempty"`
	Status         enum.CashSessionStatus `gorm:"not null;default:0;index" json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`

	Cashier *User `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s CashSession) MarshalJSON() ([]byte, error) {
	type Alias CashSession
	return json.Marshal(&struct {
		Alias
		OpeningFloat   float64  `json:"opening_float"`
		ExpectedAmount float64  `json:"expected_amount"`
		DeclaredAmount *float64 `json:"declared_amount,omitempty"`
		Variance       float64  `json:"variance"`
	}{
		Alias:          Alias(s),
		OpeningFloat:   toAmount(s.OpeningFloat),
		ExpectedAmount: toAmount(s.ExpectedAmount),
		DeclaredAmount: optionalAmount(s.DeclaredAmount),
		Variance:       toAmount(s.Variance),
	})
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// IsOpen reports whether the session still accepts the close operation
func (s *CashSession) IsOpen() bool {
	return s.Status == enum.CashSessionStatusOpen
}
