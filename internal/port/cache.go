package port

import "time"

// Cache is a process-wide key/value store with per-entry expiration. A Get
// after the entry's TTL has elapsed behaves as if the key was never set.
// Implementations must be safe for concurrent use; concurrent miss-then-set
// races on the same key are tolerated (last write wins), not serialized.
type Cache interface {
	// Get returns the value for key. ok=false if never set or expired.
	Get(key string) (value any, ok bool)
	// Set stores value under key with the given TTL, replacing any
	// existing entry wholesale.
	Set(key string, value any, ttl time.Duration)
	// Delete removes the key immediately regardless of expiry.
	Delete(key string)
}
