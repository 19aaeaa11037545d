package avida

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kelvinofficial/avida-sub002/cache"
)

// PrefetchResult reports the outcome of a cache warmup pass.
type PrefetchResult struct {
	Warmed  int // filters fetched and cached
	Skipped int // filters whose cached page was still fresh
	Failed  int // filters whose fetch failed
}

// prefetchWorkers bounds concurrent warmup fetches so a cold start does not
// stampede the API.
const prefetchWorkers = 4

// Prefetch warms the cache for several filters concurrently. Filters whose
// cached first page is still fresh are skipped; fetch failures are logged
// and counted, never fatal. Used on app start to warm the home screen's
// category rails before the user taps into one.
func (f *Feed) Prefetch(ctx context.Context, filters []ListingFilter) PrefetchResult {
	if len(filters) == 0 {
		return PrefetchResult{}
	}

	type outcome int
	const (
		warmed outcome = iota
		skipped
		failed
	)

	results := make(chan outcome, len(filters))
	sem := make(chan struct{}, prefetchWorkers)
	var wg sync.WaitGroup

	for _, filter := range filters {
		wg.Add(1)
		go func(filter ListingFilter) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			key := FilterKey(filter)
			if _, _, freshness, ok := f.lookup(key); ok && freshness == cache.Fresh {
				results <- skipped
				return
			}

			page, err := f.fetchFirst(ctx, filter)
			if err != nil {
				if IsNetworkError(err) {
					f.monitor.MarkFailure()
				}
				f.logger.Debug("prefetch failed",
					zap.String("key", key),
					zap.Error(err))
				results <- failed
				return
			}

			f.monitor.MarkSuccess()
			f.storePage(key, page)
			results <- warmed
		}(filter)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var res PrefetchResult
	for o := range results {
		switch o {
		case warmed:
			res.Warmed++
		case skipped:
			res.Skipped++
		case failed:
			res.Failed++
		}
	}
	return res
}
