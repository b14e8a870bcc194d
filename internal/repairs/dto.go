package repairs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// CustomerInput identifies the customer at intake. Matching is by phone:
// a known phone reuses the existing customer record.
type CustomerInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     *string
}

// DeviceInput describes the unit being dropped off.
type DeviceInput struct {
	Brand        string
	Model        string
	SerialNumber *string
}

// CreateRepairInput opens a ticket, registering customer and device along
// the way when they are new.
type CreateRepairInput struct {
	Customer      CustomerInput
	Device        DeviceInput
	Description   string
	EstimatedCost *decimal.Decimal
	Diagnostic    json.RawMessage
}

// Filters describe the inputs supported by the repair list.
type Filters struct {
	Archived bool
	Status   *enums.RepairStatus
}

// RepairList wraps a page of repairs plus the next page cursor.
type RepairList struct {
	Repairs    []models.Repair `json:"repairs"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// DashboardStats aggregates the workshop dashboard counters.
type DashboardStats struct {
	CountsByStatus map[enums.RepairStatus]int64 `json:"counts_by_status"`
	TotalRepairs   int64                        `json:"total_repairs"`
	Revenue        decimal.Decimal              `json:"revenue"`
}

// RepairCreatedEvent is emitted when a ticket is opened.
type RepairCreatedEvent struct {
	RepairID   uuid.UUID          `json:"repair_id"`
	DeviceID   uuid.UUID          `json:"device_id"`
	CustomerID uuid.UUID          `json:"customer_id"`
	Status     enums.RepairStatus `json:"status"`
}

// RepairStatusChangedEvent is emitted on every status transition.
type RepairStatusChangedEvent struct {
	RepairID uuid.UUID          `json:"repair_id"`
	From     enums.RepairStatus `json:"from"`
	To       enums.RepairStatus `json:"to"`
}

// RepairDeletedEvent is emitted after a ticket and its reservations are
// gone; restored quantities are keyed by inventory item.
type RepairDeletedEvent struct {
	RepairID      uuid.UUID         `json:"repair_id"`
	RestoredStock map[uuid.UUID]int `json:"restored_stock,omitempty"`
}
