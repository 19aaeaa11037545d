package avida

import (
	"encoding/json"
	"time"

	"github.com/kelvinofficial/avida-sub002/cache"
)

// DefaultRecentLimit is how many recently used subcategories are kept per
// category.
const DefaultRecentLimit = 8

// recentKeyPrefix namespaces recent-subcategory entries in the store.
const recentKeyPrefix = "recent:subcategories:"

// RecentSubcategories persists the most-recently-used subcategory list per
// category, backing the subcategory picker's "recent" row. Entries survive
// restarts when the store does (FileStore, RedisStore).
type RecentSubcategories struct {
	store cache.Store
	limit int
}

// NewRecentSubcategories creates a recents helper over the store. A
// non-positive limit uses DefaultRecentLimit.
func NewRecentSubcategories(store cache.Store, limit int) *RecentSubcategories {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentSubcategories{store: store, limit: limit}
}

// Push records a subcategory selection, moving it to the front of the
// category's list and trimming to the limit.
func (r *RecentSubcategories) Push(category, subcategory string) error {
	if category == "" || subcategory == "" {
		return nil
	}

	current := r.List(category)

	updated := make([]string, 0, len(current)+1)
	updated = append(updated, subcategory)
	for _, s := range current {
		if s == subcategory {
			continue
		}
		updated = append(updated, s)
	}
	if len(updated) > r.limit {
		updated = updated[:r.limit]
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return &CacheError{Message: "encoding recent subcategories", Cause: err}
	}

	entry := cache.Entry{
		Payload:   payload,
		FetchedAt: time.Now(),
		Version:   CacheSchemaVersion,
	}
	if err := r.store.Set(recentKeyPrefix+category, entry); err != nil {
		return &CacheError{Message: "storing recent subcategories", Cause: err}
	}
	return nil
}

// List returns the category's recent subcategories, most recent first.
// Missing or undecodable entries yield an empty list.
func (r *RecentSubcategories) List(category string) []string {
	entry, ok := r.store.Get(recentKeyPrefix + category)
	if !ok || entry.Version != CacheSchemaVersion {
		return nil
	}

	var subcategories []string
	if err := json.Unmarshal(entry.Payload, &subcategories); err != nil {
		return nil
	}
	return subcategories
}

// Clear forgets the category's recent subcategories.
func (r *RecentSubcategories) Clear(category string) {
	r.store.Delete(recentKeyPrefix + category)
}
