package enums

// OutboxEventType names the domain events the core emits for its
// collaborators (reporting views, notification senders).
type OutboxEventType string

const (
	EventRepairCreated       OutboxEventType = "repair.created"
	EventRepairStatusChanged OutboxEventType = "repair.status_changed"
	EventRepairDeleted       OutboxEventType = "repair.deleted"
	EventStockChanged        OutboxEventType = "inventory.stock_changed"
)

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateRepair        OutboxAggregateType = "repair"
	AggregateInventoryItem OutboxAggregateType = "inventory_item"
)

// String implements fmt.Stringer.
func (t OutboxAggregateType) String() string {
	return string(t)
}
