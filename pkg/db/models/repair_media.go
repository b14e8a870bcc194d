package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// RepairMedia records a photo or video attached to a repair. The blob lives
// in external storage; only the public URL is kept here.
type RepairMedia struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RepairID  uuid.UUID       `gorm:"column:repair_id;type:uuid;not null"`
	URL       string          `gorm:"column:url;not null"`
	Kind      enums.MediaKind `gorm:"column:kind;type:text;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
