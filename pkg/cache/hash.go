package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashKey generates a cache key by hashing ref.
// The key format is: prefix:hash(ref)
func hashKey(prefix, ref string) string {
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, Hash([]byte(ref)))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
