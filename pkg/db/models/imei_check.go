package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// ImeiCheck records one lookup against the external IMEI registry. Either
// the IMEI or a serial number is set, never both empty.
type ImeiCheck struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Imei         *string               `gorm:"column:imei"`
	SerialNumber *string               `gorm:"column:serial_number"`
	Status       enums.ImeiCheckStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Result       json.RawMessage       `gorm:"column:result;type:jsonb"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
