package avida

import (
	"context"

	"go.uber.org/zap"
)

// revalidate starts a background refresh for key unless one is already in
// flight. Returns whether a refresh was started. The fresh page overwrites
// the cached one (last write wins) and is delivered through the update
// handler together with a diff against the old page.
func (f *Feed) revalidate(filter ListingFilter, key string, old *FeedPage) bool {
	f.mu.Lock()
	if f.inflight[key] {
		f.mu.Unlock()
		return false
	}
	f.inflight[key] = true
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			f.mu.Lock()
			delete(f.inflight, key)
			f.mu.Unlock()
		}()

		// Detached from the request context: the caller already has a page
		// on screen, the refresh outlives their request.
		ctx, cancel := context.WithTimeout(context.Background(), f.revalidateTimeout)
		defer cancel()

		page, err := f.fetchFirst(ctx, filter)
		if err != nil {
			if IsNetworkError(err) {
				f.monitor.MarkFailure()
			}
			f.logger.Warn("feed revalidation failed",
				zap.String("key", key),
				zap.Error(err))
			return
		}

		f.monitor.MarkSuccess()
		f.storePage(key, page)

		diff := DiffPages(old, page)
		f.logger.Debug("feed revalidated",
			zap.String("key", key),
			zap.Int("added", len(diff.Added)),
			zap.Int("removed", len(diff.Removed)),
			zap.Int("changed", len(diff.Changed)))

		if f.onUpdate != nil {
			f.onUpdate(filter, *page, diff)
		}
	}()

	return true
}
