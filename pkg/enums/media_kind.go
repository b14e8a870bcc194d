package enums

import (
	"fmt"
	"strings"
)

// MediaKind classifies a repair media record.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

var validMediaKinds = []MediaKind{
	MediaKindImage,
	MediaKindVideo,
}

// String implements fmt.Stringer.
func (k MediaKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is recognized.
func (k MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMediaKind converts a raw string into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}

// MediaKindFromContentType maps a MIME content type to a MediaKind.
func MediaKindFromContentType(contentType string) MediaKind {
	if strings.HasPrefix(contentType, "image/") {
		return MediaKindImage
	}
	return MediaKindVideo
}
