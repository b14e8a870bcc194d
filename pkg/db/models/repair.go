package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// Repair is the central ticket of the workshop. Status transitions are
// lenient; side effects (timestamps, stock restoration) key off the target
// status, not the previous one.
type Repair struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeviceID      uuid.UUID          `gorm:"column:device_id;type:uuid;not null"`
	Device        *Device            `gorm:"foreignKey:DeviceID"`
	Status        enums.RepairStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Description   string             `gorm:"column:description;not null"`
	EstimatedCost decimal.Decimal    `gorm:"column:estimated_cost;type:numeric(10,2);not null;default:0"`
	CancelReason  *string            `gorm:"column:cancel_reason"`
	CompletedAt   *time.Time         `gorm:"column:completed_at"`
	ArchivedAt    *time.Time         `gorm:"column:archived_at"`
	Parts         []RepairPart       `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE"`
	Media         []RepairMedia      `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE"`
	Messages      []RepairMessage    `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE"`
	Diagnostic    *Diagnostic        `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
