package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// Receipt is an issued sales document (boleta, factura or an unnumbered ticket).
// Once issued only the void transition may change it. Numbers are unique per
// document type and series, so boletas and facturas may share a series label.
type Receipt struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type            enum.ReceiptType   `gorm:"not null;default:0;uniqueIndex:ux_receipts_type_series_number" json:"type"`
	Series          *string            `gorm:"size:10;uniqueIndex:ux_receipts_type_series_number" json:"series,omitempty"`
	Number          *int64             `gorm:"uniqueIndex:ux_receipts_type_series_number" json:"number,omitempty"`
	CustomerDoc     *string            `gorm:"size:20" json:"customer_document,omitempty"`
	CustomerName    *string            `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerAddress *string            `gorm:"size:255" json:"customer_address,omitempty"`
	SubTotal        int64              `gorm:"not null" json:"-"` // Stored in cents
	Tax             int64              `gorm:"not null" json:"-"` // Stored in cents
	Total           int64              `gorm:"not null" json:"-"` // Stored in cents
	PaymentMethod   enum.PaymentMethod `gorm:"not null;index" json:"payment_method"`
	Status          enum.ReceiptStatus `gorm:"not null;default:0;index" json:"status"`
	VoidReason      *string            `gorm:"type:text" json:"void_reason,omitempty"`
	VoidedAt        *time.Time         `json:"voided_at,omitempty"`
	IssuedAt        time.Time          `gorm:"not null;index" json:"issued_at"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	// Relationships
	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Code     string  `json:"code,omitempty"`
		SubTotal float64 `json:"sub_total"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(r),
		Code:     r.Code(),
		SubTotal: toAmount(r.SubTotal),
		Tax:      toAmount(r.Tax),
		Total:    toAmount(r.Total),
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// Code formats the two-part document identifier, e.g. "B001-000123".
// Unnumbered receipts return an empty string.
func (r *Receipt) Code() string {
	if r.Series == nil || r.Number == nil {
		return ""
	}
	return fmt.Sprintf("%s-%06d", *r.Series, *r.Number)
}

// IsVoided reports whether the receipt has been voided
func (r *Receipt) IsVoided() bool {
	return r.Status == enum.ReceiptStatusVoided
}
