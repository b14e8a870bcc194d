package enums

import "fmt"

// MessageSender identifies which side of the repair chat wrote a message.
type MessageSender string

const (
	MessageSenderClient     MessageSender = "client"
	MessageSenderTechnician MessageSender = "technician"
)

var validMessageSenders = []MessageSender{
	MessageSenderClient,
	MessageSenderTechnician,
}

// String implements fmt.Stringer.
func (s MessageSender) String() string {
	return string(s)
}

// IsValid reports whether the sender is recognized.
func (s MessageSender) IsValid() bool {
	for _, candidate := range validMessageSenders {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMessageSender converts a raw string into a MessageSender.
func ParseMessageSender(value string) (MessageSender, error) {
	for _, candidate := range validMessageSenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message sender %q", value)
}
