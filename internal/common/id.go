package common

import (
	"github.com/google/uuid"
)

// NewPlaceID generates a unique fallback place ID with the "place_" prefix.
// Used when a result record carries no stable provider identifier. These IDs
// are not stable across requests.
// Format: place_<uuid>
func NewPlaceID() string {
	return "place_" + uuid.New().String()
}
