package dato

import (
	"encoding/base64"
	"regexp"

	"github.com/google/uuid"
)

var (
	generatedIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{22}$`)
	legacyIDPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// GenerateID returns a new client-side resource id: a random UUIDv4 encoded as
// unpadded base64url. Records and assets created with such an id can be
// referenced before the API has answered.
func GenerateID() string {
	id := uuid.New()

	return base64.RawURLEncoding.EncodeToString(id[:])
}

// IsValidID reports whether id looks like a generated id or a numeric legacy id.
func IsValidID(id string) bool {
	if legacyIDPattern.MatchString(id) {
		return true
	}

	if !generatedIDPattern.MatchString(id) {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return false
	}

	parsed, err := uuid.FromBytes(raw)
	if err != nil {
		return false
	}

	return parsed.Version() == 4 && parsed.Variant() == uuid.RFC4122
}
