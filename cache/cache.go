// Package cache provides feed cache stores for the avida client.
//
// A store is a plain key-value map of serialized payloads; it does not judge
// freshness. Entries carry the fetch timestamp and a schema version, and the
// feed engine applies the stale / max-age thresholds on read.
package cache

import "time"

// Freshness classifies a cache entry's age against the two feed thresholds.
type Freshness int

const (
	// Fresh entries are served as-is.
	Fresh Freshness = iota
	// Stale entries are still served but trigger a background refresh.
	Stale
	// Expired entries are unusable except as an offline fallback.
	Expired
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "expired"
	}
}

// Entry is a single cached payload with its metadata.
type Entry struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
	// Version is the serialization schema version the payload was written
	// with. Readers treat a mismatch as a cache miss.
	Version int `json:"version"`
}

// Freshness classifies the entry at the given instant. A non-positive
// staleAfter means entries never go stale; a non-positive maxAge means they
// never expire.
func (e Entry) Freshness(now time.Time, staleAfter, maxAge time.Duration) Freshness {
	age := now.Sub(e.FetchedAt)
	if maxAge > 0 && age > maxAge {
		return Expired
	}
	if staleAfter > 0 && age > staleAfter {
		return Stale
	}
	return Fresh
}

// Store is the interface feed caches implement.
type Store interface {
	// Get retrieves an entry. Returns false if the key is absent. Age and
	// version checks are the caller's job.
	Get(key string) (Entry, bool)

	// Set stores an entry, overwriting any previous value (last write wins).
	Set(key string, entry Entry) error

	// Delete removes an entry. Deleting an absent key is a no-op.
	Delete(key string)

	// Keys returns all keys currently in the store.
	Keys() []string
}
