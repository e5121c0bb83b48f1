package id

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a random 16-character lowercase hex ID.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
