package enums

import "fmt"

// TVAMode selects how VAT applies to a price calculation. The margin mode
// implements the French second-hand-goods scheme where VAT is due on the
// margin only.
type TVAMode string

const (
	TVAModeStandard TVAMode = "standard"
	TVAModeMargin   TVAMode = "margin"
)

var validTVAModes = []TVAMode{
	TVAModeStandard,
	TVAModeMargin,
}

// String implements fmt.Stringer.
func (m TVAMode) String() string {
	return string(m)
}

// IsValid reports whether the mode is recognized.
func (m TVAMode) IsValid() bool {
	for _, candidate := range validTVAModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseTVAMode converts a raw string into a TVAMode.
func ParseTVAMode(value string) (TVAMode, error) {
	if value == "" {
		return TVAModeStandard, nil
	}
	for _, candidate := range validTVAModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tva mode %q", value)
}
