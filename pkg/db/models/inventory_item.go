package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked spare part. Quantity never goes negative; all
// writes go through conditional updates or atomic increments.
type InventoryItem struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Reference *string          `gorm:"column:reference"`
	Quantity  int              `gorm:"column:quantity;not null;default:0"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
