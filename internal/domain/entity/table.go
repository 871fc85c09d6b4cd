package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// DefaultTableLocation is used when a table is created without a location label
const DefaultTableLocation = "Salón principal"

// DiningTable is a physical table in the restaurant
type DiningTable struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number    int              `gorm:"not null;uniqueIndex" json:"number"`
	Capacity  int              `gorm:"not null;default:4" json:"capacity"`
	Location  string           `gorm:"size:100" json:"location"`
	Status    enum.TableStatus `gorm:"not null;default:0;index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	ActiveOrders []Order `gorm:"foreignKey:TableID" json:"active_orders,omitempty"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiningTable model
func (DiningTable) TableName() string {
	return "dining_tables"
}
