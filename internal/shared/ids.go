package shared

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID generates an entity identifier of the form "<prefix>_<12 hex chars>".
// The prefix encodes the entity type (org, ws, exp, report, ...).
func NewID(prefix string) string {
	id := uuid.New()
	suffix := hex.EncodeToString(id[:])[:12]
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}
