// Package cache stores fetched document text between pipeline runs so
// re-running enrichment does not refetch pages that were already
// downloaded. Keys are derived from the document URL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk, and
// layered implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a document URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "paperatlas:v1:" + hex.EncodeToString(hash[:])
}
