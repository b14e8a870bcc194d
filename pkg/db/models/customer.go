package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer owns one or more devices brought in for repair.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Phone     string    `gorm:"column:phone;not null;uniqueIndex"`
	Email     *string   `gorm:"column:email"`
	Devices   []Device  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
