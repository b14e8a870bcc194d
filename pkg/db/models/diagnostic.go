package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Diagnostic stores the structured diagnostic record for a repair. The
// payload shape belongs to the diagnostic collaborator and is opaque here.
type Diagnostic struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RepairID  uuid.UUID       `gorm:"column:repair_id;type:uuid;not null;uniqueIndex"`
	Payload   json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
