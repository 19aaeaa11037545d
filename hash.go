package avida

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// FilterKey computes the cache key for a filter's first page. The filter is
// serialized to canonical JSON (encoding/json emits map keys in sorted
// order) and hashed, so two filters that differ only in attribute map
// iteration order produce the same key.
func FilterKey(f ListingFilter) string {
	f.Query = strings.TrimSpace(f.Query)
	data, err := json.Marshal(f)
	if err != nil {
		// ListingFilter contains only marshalable types; this is unreachable
		// short of memory corruption, but fall back to something stable.
		data = []byte(f.Category + "|" + f.Subcategory + "|" + f.Query)
	}
	sum := sha256.Sum256(data)
	return "feed:" + hex.EncodeToString(sum[:])
}

// ListingKey computes the cache key for a single listing's detail payload.
func ListingKey(id string) string {
	return "listing:" + id
}
