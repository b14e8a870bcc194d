package models

import (
	"time"

	"github.com/google/uuid"
)

// Device is a customer-owned unit that repairs attach to.
type Device struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	Customer     *Customer `gorm:"foreignKey:CustomerID"`
	Brand        string    `gorm:"column:brand;not null"`
	Model        string    `gorm:"column:model;not null"`
	SerialNumber *string   `gorm:"column:serial_number"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
