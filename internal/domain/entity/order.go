package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a table or counter order. Money columns are derived from the lines.
type Order struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TableID     *uuid.UUID       `gorm:"type:uuid;index" json:"table_id,omitempty"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Status      enum.OrderStatus `gorm:"not null;default:0;index" json:"status"`
	ServiceType enum.ServiceType `gorm:"not null;default:0" json:"service_type"`
	Guests      int              `gorm:"not null;default:1" json:"guests"`
	SubTotal    int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Discount    int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Tax         int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Total       int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Notes       *string          `gorm:"type:text" json:"notes,omitempty"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	User     *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Table    *DiningTable  `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Details  []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
	Receipts []Receipt     `gorm:"foreignKey:OrderID" json:"receipts,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Discount float64 `json:"discount"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(o),
		SubTotal: toAmount(o.SubTotal),
		Discount: toAmount(o.Discount),
		Tax:      toAmount(o.Tax),
		Total:    toAmount(o.Total),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderDetail is a line item. UnitPrice and TaxRate are snapshots taken when the line was added.
type OrderDetail struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice int64           `gorm:"not null" json:"-"` // Stored in cents
	SubTotal  int64           `gorm:"not null" json:"-"` // Stored in cents
	TaxRate   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tax_rate"`
	Notes     *string         `gorm:"type:text" json:"notes,omitempty"`
	Status    enum.LineStatus `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (od OrderDetail) MarshalJSON() ([]byte, error) {
	type Alias OrderDetail
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		SubTotal  float64 `json:"sub_total"`
	}{
		Alias:     Alias(od),
		UnitPrice: toAmount(od.UnitPrice),
		SubTotal:  toAmount(od.SubTotal),
	})
}

// BeforeCreate generates a UUID before creating a new order detail
func (od *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
