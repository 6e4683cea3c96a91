package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MaskIdentity derives a stable pseudonym for an assessor identifier:
// the first 8 hex characters of its SHA-256 digest, upper-cased. The
// raw identifier is never recoverable from the pseudonym.
func MaskIdentity(id string) string {
	sum := sha256.Sum256([]byte(id))
	return strings.ToUpper(hex.EncodeToString(sum[:4]))
}
