package models

import (
	"time"

	"github.com/google/uuid"
)

// RepairPart reserves a quantity of an inventory item for a repair. Every
// reservation decrements the item's stock; removing the part or deleting
// the repair restores it.
type RepairPart struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RepairID        uuid.UUID      `gorm:"column:repair_id;type:uuid;not null"`
	InventoryItemID uuid.UUID      `gorm:"column:inventory_item_id;type:uuid;not null"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID"`
	Quantity        int            `gorm:"column:quantity;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
}
