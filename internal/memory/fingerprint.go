package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintURL derives the stable item ID for a link. Surrounding
// whitespace is stripped before hashing, so re-saving the same link
// overwrites instead of duplicating.
func FingerprintURL(url string) string {
	return fingerprint([]byte(strings.TrimSpace(url)))
}

// FingerprintBytes derives the stable item ID for raw content bytes.
// Identical bytes always produce the same ID.
func FingerprintBytes(data []byte) string {
	return fingerprint(data)
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
