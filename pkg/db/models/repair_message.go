package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// RepairMessage is one entry of the client/technician chat thread.
type RepairMessage struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RepairID  uuid.UUID           `gorm:"column:repair_id;type:uuid;not null"`
	Sender    enums.MessageSender `gorm:"column:sender;type:text;not null"`
	Content   string              `gorm:"column:content;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
