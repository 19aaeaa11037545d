package avida

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kelvinofficial/avida-sub002/cache"
)

// CacheSchemaVersion is the serialization version of cached feed pages.
// Bump it when FeedPage or Listing changes shape; readers treat entries
// written with any other version as a miss and evict them.
const CacheSchemaVersion = 2

// feedKeyPrefix is shared by all first-page cache keys, see FilterKey.
const feedKeyPrefix = "feed:"

// ListingSource is the interface for listings API backends.
type ListingSource interface {
	FetchPage(ctx context.Context, q Query) (*FeedPage, error)
}

// SearchRecorder receives a search event for every network-origin query
// load. The analytics package provides an implementation.
type SearchRecorder interface {
	RecordSearch(query, category string, resultCount int)
}

// UpdateHandler is called after a background revalidation replaces a cached
// page. The diff compares the fresh page against the previously cached one.
type UpdateHandler func(filter ListingFilter, page FeedPage, diff PageDiff)

// Feed is the cache-first listings feed engine.
type Feed struct {
	source            ListingSource
	store             cache.Store
	staleAfter        time.Duration
	maxAge            time.Duration
	pageSize          int
	revalidateTimeout time.Duration
	onUpdate          UpdateHandler
	monitor           *Monitor
	recorder          SearchRecorder
	logger            *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
}

// FeedOption is a functional option for configuring the Feed.
type FeedOption func(*Feed)

// WithCache sets the cache store. Without one every load hits the network.
func WithCache(store cache.Store) FeedOption {
	return func(f *Feed) {
		f.store = store
	}
}

// WithStaleAfter sets the short threshold: a cached page older than this is
// still served but triggers a background refresh.
func WithStaleAfter(d time.Duration) FeedOption {
	return func(f *Feed) {
		f.staleAfter = d
	}
}

// WithMaxAge sets the long threshold: a cached page older than this is only
// served as an offline fallback.
func WithMaxAge(d time.Duration) FeedOption {
	return func(f *Feed) {
		f.maxAge = d
	}
}

// WithPageSize sets the page size requested from the API.
func WithPageSize(n int) FeedOption {
	return func(f *Feed) {
		f.pageSize = n
	}
}

// WithUpdateHandler sets the callback invoked when background revalidation
// replaces a cached page.
func WithUpdateHandler(h UpdateHandler) FeedOption {
	return func(f *Feed) {
		f.onUpdate = h
	}
}

// WithMonitor sets the offline monitor shared with other client components.
func WithMonitor(m *Monitor) FeedOption {
	return func(f *Feed) {
		if m != nil {
			f.monitor = m
		}
	}
}

// WithAnalytics sets the search recorder fed on network-origin query loads.
func WithAnalytics(r SearchRecorder) FeedOption {
	return func(f *Feed) {
		f.recorder = r
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) FeedOption {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRevalidateTimeout bounds each background revalidation fetch.
func WithRevalidateTimeout(d time.Duration) FeedOption {
	return func(f *Feed) {
		f.revalidateTimeout = d
	}
}

// NewFeed creates a feed engine over the given listing source.
func NewFeed(source ListingSource, opts ...FeedOption) *Feed {
	f := &Feed{
		source:            source,
		staleAfter:        time.Minute,
		maxAge:            24 * time.Hour,
		pageSize:          20,
		revalidateTimeout: 15 * time.Second,
		monitor:           NewMonitor(0),
		logger:            zap.NewNop(),
		inflight:          make(map[string]bool),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Load returns the first page for the filter, cache-first: a cached page
// that has not expired is returned immediately, and if it is past the stale
// threshold a background refresh is started. On a miss the page is fetched
// from the network and cached. When the network is unreachable, any cached
// copy (even an expired one) is served flagged Stale.
func (f *Feed) Load(ctx context.Context, filter ListingFilter) (*FeedResult, error) {
	key := FilterKey(filter)

	if entry, page, freshness, ok := f.lookup(key); ok {
		switch freshness {
		case cache.Fresh:
			return &FeedResult{Page: *page, Origin: OriginCache}, nil
		case cache.Stale:
			res := &FeedResult{Page: *page, Origin: OriginCache, Stale: true}
			if f.monitor.Online() {
				res.Revalidating = f.revalidate(filter, key, page)
			}
			return res, nil
		case cache.Expired:
			if !f.monitor.Online() {
				// Offline: an expired page beats an error screen.
				f.logger.Debug("serving expired page while offline",
					zap.String("key", key),
					zap.Time("fetched_at", entry.FetchedAt))
				return &FeedResult{Page: *page, Origin: OriginCache, Stale: true}, nil
			}
		}
	}

	page, err := f.fetchFirst(ctx, filter)
	if err != nil {
		return f.loadFallback(key, filter, err)
	}

	f.monitor.MarkSuccess()
	f.storePage(key, page)
	f.recordSearch(filter, len(page.Listings))
	return &FeedResult{Page: *page, Origin: OriginNetwork}, nil
}

// loadFallback handles a failed network fetch: connectivity errors fall
// back to whatever the cache still holds.
func (f *Feed) loadFallback(key string, filter ListingFilter, fetchErr error) (*FeedResult, error) {
	if !IsNetworkError(fetchErr) {
		return nil, fetchErr
	}

	f.monitor.MarkFailure()

	if _, page, _, ok := f.lookup(key); ok {
		f.logger.Warn("network unreachable, serving cached page",
			zap.String("key", key),
			zap.Error(fetchErr))
		return &FeedResult{Page: *page, Origin: OriginCache, Stale: true}, nil
	}

	return nil, &OfflineError{Cause: fetchErr}
}

// LoadMore fetches the page after the given cursor. Continuation pages are
// never cached; only the first page per filter renders instantly.
func (f *Feed) LoadMore(ctx context.Context, filter ListingFilter, cursor string) (*FeedPage, error) {
	if cursor == "" {
		return nil, &FeedError{Message: "LoadMore requires a cursor; use Load for the first page"}
	}

	page, err := f.source.FetchPage(ctx, Query{Filter: filter, Cursor: cursor, Limit: f.pageSize})
	if err != nil {
		if IsNetworkError(err) {
			f.monitor.MarkFailure()
		}
		return nil, err
	}

	f.monitor.MarkSuccess()
	f.normalize(page)
	return page, nil
}

// Refresh forces a network fetch for the filter's first page, overwrites
// the cached copy (last write wins) and returns the fresh result.
func (f *Feed) Refresh(ctx context.Context, filter ListingFilter) (*FeedResult, error) {
	key := FilterKey(filter)

	page, err := f.fetchFirst(ctx, filter)
	if err != nil {
		if IsNetworkError(err) {
			f.monitor.MarkFailure()
		}
		return nil, err
	}

	f.monitor.MarkSuccess()
	f.storePage(key, page)
	f.recordSearch(filter, len(page.Listings))
	return &FeedResult{Page: *page, Origin: OriginNetwork}, nil
}

// Invalidate drops the cached first page for the filter.
func (f *Feed) Invalidate(filter ListingFilter) {
	if f.store != nil {
		f.store.Delete(FilterKey(filter))
	}
}

// InvalidateAll drops every cached feed page, leaving non-feed entries
// (recent subcategories, listing details) in place.
func (f *Feed) InvalidateAll() {
	if f.store == nil {
		return
	}
	for _, key := range f.store.Keys() {
		if strings.HasPrefix(key, feedKeyPrefix) {
			f.store.Delete(key)
		}
	}
}

// Monitor returns the offline monitor the feed consults.
func (f *Feed) Monitor() *Monitor {
	return f.monitor
}

// Wait blocks until all in-flight background revalidations finish.
func (f *Feed) Wait() {
	f.wg.Wait()
}

// lookup reads and decodes the cached page for key. Entries with a schema
// version mismatch or an undecodable payload are evicted and reported as a
// miss.
func (f *Feed) lookup(key string) (cache.Entry, *FeedPage, cache.Freshness, bool) {
	if f.store == nil {
		return cache.Entry{}, nil, cache.Expired, false
	}

	entry, ok := f.store.Get(key)
	if !ok {
		return cache.Entry{}, nil, cache.Expired, false
	}

	if entry.Version != CacheSchemaVersion {
		f.logger.Debug("evicting cache entry with old schema",
			zap.String("key", key),
			zap.Int("version", entry.Version))
		f.store.Delete(key)
		return cache.Entry{}, nil, cache.Expired, false
	}

	var page FeedPage
	if err := json.Unmarshal(entry.Payload, &page); err != nil {
		f.logger.Warn("evicting undecodable cache entry",
			zap.String("key", key),
			zap.Error(err))
		f.store.Delete(key)
		return cache.Entry{}, nil, cache.Expired, false
	}

	return entry, &page, entry.Freshness(time.Now(), f.staleAfter, f.maxAge), true
}

// storePage writes a first page to the cache. Write failures are logged and
// swallowed: a broken cache must not break the feed.
func (f *Feed) storePage(key string, page *FeedPage) {
	if f.store == nil {
		return
	}

	payload, err := json.Marshal(page)
	if err != nil {
		f.logger.Warn("encoding feed page failed", zap.String("key", key), zap.Error(err))
		return
	}

	entry := cache.Entry{
		Payload:   payload,
		FetchedAt: page.FetchedAt,
		Version:   CacheSchemaVersion,
	}
	if err := f.store.Set(key, entry); err != nil {
		f.logger.Warn("caching feed page failed", zap.String("key", key), zap.Error(err))
	}
}

// fetchFirst fetches the filter's first page from the source.
func (f *Feed) fetchFirst(ctx context.Context, filter ListingFilter) (*FeedPage, error) {
	page, err := f.source.FetchPage(ctx, Query{Filter: filter, Limit: f.pageSize})
	if err != nil {
		return nil, err
	}
	f.normalize(page)
	return page, nil
}

// normalize stamps pages the server returned without a fetch time.
func (f *Feed) normalize(page *FeedPage) {
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now()
	}
}

// recordSearch forwards query loads to the analytics recorder, if any.
func (f *Feed) recordSearch(filter ListingFilter, resultCount int) {
	if f.recorder == nil || strings.TrimSpace(filter.Query) == "" {
		return
	}
	f.recorder.RecordSearch(strings.TrimSpace(filter.Query), filter.Category, resultCount)
}
