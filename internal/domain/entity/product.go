package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// Product represents a menu item. Stock fields are only set for purchased products.
type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Name          string           `gorm:"size:150;not null" json:"name"`
	Description   *string          `gorm:"type:text" json:"description,omitempty"`
	SalePrice     int64            `gorm:"not null" json:"-"` // Stored in cents
	Kind          enum.ProductKind `gorm:"not null;default:0" json:"kind"`
	Active        bool             `gorm:"default:true;index" json:"active"`
	PurchasePrice *int64           `json:"-"` // Stored in cents
	Stock         *int             `json:"stock,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty"`
	Unit          *string          `gorm:"size:20" json:"unit,omitempty"`
	SKU           *string          `gorm:"size:50;uniqueIndex" json:"sku,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON converts cent prices to decimals
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SalePrice     float64  `json:"sale_price"`
		PurchasePrice *float64 `json:"purchase_price,omitempty"`
		LowStock      bool     `json:"low_stock"`
	}{
		Alias:         Alias(p),
		SalePrice:     toAmount(p.SalePrice),
		PurchasePrice: optionalAmount(p.PurchasePrice),
		LowStock:      p.IsLowStock(),
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TracksStock reports whether quantities of this product are counted
func (p *Product) TracksStock() bool {
	return p.Kind == enum.ProductKindPurchased
}

// IsLowStock reports whether a stocked product is at or under its minimum
func (p *Product) IsLowStock() bool {
	if !p.TracksStock() || p.Stock == nil || p.MinStock == nil {
		return false
	}
	return *p.Stock <= *p.MinStock
}

// ClearStockFields drops the purchased-only columns
func (p *Product) ClearStockFields() {
	p.PurchasePrice = nil
	p.Stock = nil
	p.MinStock = nil
	p.Unit = nil
	p.SKU = nil
}

// Category groups products on the menu
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
