package avida

import "time"

// SortOrder controls how the server orders feed results.
type SortOrder string

const (
	// SortNewest orders listings by creation time, newest first.
	SortNewest SortOrder = "newest"
	// SortPriceAsc orders listings by price, cheapest first.
	SortPriceAsc SortOrder = "price_asc"
	// SortPriceDesc orders listings by price, most expensive first.
	SortPriceDesc SortOrder = "price_desc"
	// SortRelevance orders listings by search relevance (requires a query).
	SortRelevance SortOrder = "relevance"
)

// Origin identifies where a feed result came from.
type Origin string

const (
	// OriginCache means the page was served from the local cache.
	OriginCache Origin = "cache"
	// OriginNetwork means the page was fetched from the remote API.
	OriginNetwork Origin = "network"
)

// Listing is a single classified ad as returned by the marketplace API.
type Listing struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"` // HTML, see Snippet
	Price       int64             `json:"price"`       // minor units
	Currency    string            `json:"currency"`
	Category    string            `json:"category"`
	Subcategory string            `json:"subcategory,omitempty"`
	Location    string            `json:"location,omitempty"`
	Images      []string          `json:"images,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ListingFilter describes which listings a feed should contain.
// The zero value matches everything.
type ListingFilter struct {
	Category    string            `json:"category,omitempty"`
	Subcategory string            `json:"subcategory,omitempty"`
	Query       string            `json:"query,omitempty"`
	PriceMin    int64             `json:"price_min,omitempty"` // minor units, 0 = unbounded
	PriceMax    int64             `json:"price_max,omitempty"` // minor units, 0 = unbounded
	Location    string            `json:"location,omitempty"`
	Sort        SortOrder         `json:"sort,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Query is a single page request against the listings API.
type Query struct {
	Filter ListingFilter
	Cursor string // opaque continuation token, empty for the first page
	Limit  int    // page size, 0 lets the client apply its default
}

// FeedPage is one page of feed results.
type FeedPage struct {
	Listings []Listing `json:"listings"`
	// NextCursor is the opaque continuation token for the following page.
	// Empty means the feed is exhausted.
	NextCursor string    `json:"next_cursor,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// FeedResult is what Feed.Load hands back to the caller.
type FeedResult struct {
	Page   FeedPage
	Origin Origin
	// Stale is true when the page came from the cache and is past the
	// stale threshold (or past max age during offline fallback).
	Stale bool
	// Revalidating is true when a background refresh was started for
	// this key as part of serving the result.
	Revalidating bool
}

// PageDiff summarizes how a freshly fetched first page differs from the
// previously cached one. Delivered alongside revalidation updates so
// callers can animate insertions instead of repainting the whole feed.
type PageDiff struct {
	Added   []string // listing ids present only in the fresh page
	Removed []string // listing ids present only in the old page
	Changed []string // listing ids in both pages but with a newer UpdatedAt
}

// Empty reports whether the diff contains no changes.
func (d PageDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}
