package enums

import "fmt"

// ImeiCheckStatus reflects the outcome of an external IMEI lookup.
type ImeiCheckStatus string

const (
	ImeiCheckStatusPending ImeiCheckStatus = "pending"
	ImeiCheckStatusSuccess ImeiCheckStatus = "success"
	ImeiCheckStatusFailed  ImeiCheckStatus = "failed"
	ImeiCheckStatusError   ImeiCheckStatus = "error"
)

var validImeiCheckStatuses = []ImeiCheckStatus{
	ImeiCheckStatusPending,
	ImeiCheckStatusSuccess,
	ImeiCheckStatusFailed,
	ImeiCheckStatusError,
}

// String implements fmt.Stringer.
func (s ImeiCheckStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s ImeiCheckStatus) IsValid() bool {
	for _, candidate := range validImeiCheckStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseImeiCheckStatus converts a raw string into an ImeiCheckStatus.
func ParseImeiCheckStatus(value string) (ImeiCheckStatus, error) {
	for _, candidate := range validImeiCheckStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid imei check status %q", value)
}
