package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultTaxRate is the IGV percentage applied when none is configured
var DefaultTaxRate = decimal.NewFromInt(18)

// BusinessConfig is the singleton business setup row. The last issued
// boleta/factura numbers stored here back the document sequence.
type BusinessConfig struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessName      string          `gorm:"size:255;not null" json:"business_name"`
	TaxID             string          `gorm:"size:20" json:"tax_id"`
	Address           string          `gorm:"size:255" json:"address"`
	Phone             string          `gorm:"size:50" json:"phone"`
	IssuesBoletas     bool            `gorm:"not null;default:true" json:"issues_boletas"`
	IssuesFacturas    bool            `gorm:"not null;default:true" json:"issues_facturas"`
	SeriesBoleta      string          `gorm:"size:10;not null" json:"series_boleta"`
	SeriesFactura     string          `gorm:"size:10;not null" json:"series_factura"`
	LastBoletaNumber  int64           `gorm:"not null;default:0" json:"last_boleta_number"`
	LastFacturaNumber int64           `gorm:"not null;default:0" json:"last_factura_number"`
	TaxRate           decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Currency          string          `gorm:"size:3;not null;default:'PEN'" json:"currency"`
	Timezone          string          `gorm:"size:50;not null" json:"timezone"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the configuration row
func (c *BusinessConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BusinessConfig model
func (BusinessConfig) TableName() string {
	return "business_config"
}

// Enabled reports whether the business issues the given document type.
// Unnumbered receipts are always allowed.
func (c *BusinessConfig) Enabled(t enum.ReceiptType) bool {
	switch t {
	case enum.ReceiptTypeBoleta:
		return c.IssuesBoletas
	case enum.ReceiptTypeFactura:
		return c.IssuesFacturas
	default:
		return true
	}
}

// EffectiveTaxRate returns the configured percentage or the default
func (c *BusinessConfig) EffectiveTaxRate() decimal.Decimal {
	if c == nil {
		return DefaultTaxRate
	}
	return c.TaxRate
}
