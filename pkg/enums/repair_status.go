package enums

import "fmt"

// RepairStatus tracks the lifecycle of a repair ticket.
type RepairStatus string

const (
	RepairStatusPending    RepairStatus = "pending"
	RepairStatusInProgress RepairStatus = "in_progress"
	RepairStatusCompleted  RepairStatus = "completed"
	RepairStatusDelivered  RepairStatus = "delivered"
	RepairStatusCancelled  RepairStatus = "cancelled"
	RepairStatusArchived   RepairStatus = "archived"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusPending,
	RepairStatusInProgress,
	RepairStatusCompleted,
	RepairStatusDelivered,
	RepairStatusCancelled,
	RepairStatusArchived,
}

// linearOrder is the workshop's normal progression; cancelled and archived
// sit outside it and are reached through their dedicated operations.
var linearOrder = []RepairStatus{
	RepairStatusPending,
	RepairStatusInProgress,
	RepairStatusCompleted,
	RepairStatusDelivered,
}

// String implements fmt.Stringer.
func (s RepairStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RepairStatus.
func (s RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Next returns the following status in the linear progression. The second
// return value is false when the status has no successor (delivered,
// cancelled, archived).
func (s RepairStatus) Next() (RepairStatus, bool) {
	for i, candidate := range linearOrder {
		if candidate == s && i+1 < len(linearOrder) {
			return linearOrder[i+1], true
		}
	}
	return "", false
}

// IsTerminal reports whether the status ends the normal progression.
func (s RepairStatus) IsTerminal() bool {
	switch s {
	case RepairStatusDelivered, RepairStatusCancelled, RepairStatusArchived:
		return true
	default:
		return false
	}
}

// ParseRepairStatus converts raw input into a RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}
