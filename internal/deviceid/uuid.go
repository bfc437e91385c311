package deviceid

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

const uuidLength = 36

// IsValid reports whether s is a canonical UUID-v4 string: version nibble 4
// and variant nibble one of 8, 9, a, b.
func IsValid(s string) bool {
	if len(s) != uuidLength {
		return false
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}

	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}

// NewV4 builds a UUID-v4 from 16 bytes of src. The version and variant bits
// are forced regardless of the source quality.
func NewV4(src RandomSource) (string, error) {
	b, err := src.RandomBytes(16)
	if err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	if len(b) < 16 {
		return "", fmt.Errorf("short random read: got %d bytes", len(b))
	}

	id, err := uuid.NewRandomFromReader(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("building uuid: %w", err)
	}

	s := id.String()
	if !IsValid(s) {
		return "", fmt.Errorf("generated identifier %q is not a uuid-v4", s)
	}

	return s, nil
}
