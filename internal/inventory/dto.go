package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
)

// CreateItemInput carries the fields accepted when stocking a new part.
type CreateItemInput struct {
	Name      string
	Reference *string
	Quantity  int
	Price     *decimal.Decimal
}

// UpdateItemInput updates item metadata. Quantity changes go through
// Adjust, never through here.
type UpdateItemInput struct {
	Name      *string
	Reference *string
	Price     *decimal.Decimal
}

// Filters describe the inputs supported by the item list.
type Filters struct {
	Query string
}

// ItemList wraps a page of items plus the next page cursor.
type ItemList struct {
	Items      []models.InventoryItem `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// StockChangedEvent is emitted whenever an item's quantity moves.
type StockChangedEvent struct {
	ItemID uuid.UUID `json:"item_id"`
	Delta  int       `json:"delta"`
	Reason string    `json:"reason"`
}

const (
	stockReasonReserved = "reserved"
	stockReasonReleased = "released"
	stockReasonAdjusted = "adjusted"
)
