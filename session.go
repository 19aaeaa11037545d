package avida

import (
	"context"
	"errors"
	"sync"
)

// ErrExhausted is returned by Session.More once the server stops returning
// continuation cursors.
var ErrExhausted = errors.New("avida: feed exhausted")

// Session accumulates the listing list for one filter across the first
// page, continuation pages, and refreshes. It is the screen-level feed
// state: listings are deduplicated by id so a listing that moves between
// pages while the user scrolls never shows up twice.
type Session struct {
	feed   *Feed
	filter ListingFilter

	mu        sync.Mutex
	listings  []Listing
	seen      map[string]bool
	cursor    string
	started   bool
	exhausted bool
	last      FeedResult
}

// NewSession creates a session for the filter.
func (f *Feed) NewSession(filter ListingFilter) *Session {
	return &Session{
		feed:   f,
		filter: filter,
		seen:   make(map[string]bool),
	}
}

// Start loads the first page cache-first and resets the accumulated list.
func (s *Session) Start(ctx context.Context) (*FeedResult, error) {
	res, err := s.feed.Load(ctx, s.filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reset(res.Page)
	s.started = true
	s.last = *res
	s.mu.Unlock()
	return res, nil
}

// More fetches the next page and appends its unseen listings. Returns
// ErrExhausted once the feed has no further pages.
func (s *Session) More(ctx context.Context) (*FeedPage, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, &FeedError{Message: "session not started"}
	}
	if s.exhausted || s.cursor == "" {
		s.mu.Unlock()
		return nil, ErrExhausted
	}
	cursor := s.cursor
	s.mu.Unlock()

	page, err := s.feed.LoadMore(ctx, s.filter, cursor)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.append(page.Listings)
	s.cursor = page.NextCursor
	s.exhausted = page.NextCursor == ""
	s.mu.Unlock()
	return page, nil
}

// Refresh forces a fresh first page and replaces the accumulated list.
func (s *Session) Refresh(ctx context.Context) (*FeedResult, error) {
	res, err := s.feed.Refresh(ctx, s.filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reset(res.Page)
	s.started = true
	s.last = *res
	s.mu.Unlock()
	return res, nil
}

// Replace swaps in a revalidated first page, dropping any continuation
// pages the session had accumulated. Wire it to the feed's update handler:
//
//	feed := avida.NewFeed(src, avida.WithUpdateHandler(
//	    func(_ avida.ListingFilter, page avida.FeedPage, _ avida.PageDiff) {
//	        session.Replace(page)
//	    }))
func (s *Session) Replace(page FeedPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(page)
	s.started = true
}

// Listings returns a copy of the accumulated listings in display order.
func (s *Session) Listings() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

// HasMore reports whether the feed has further pages to load.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.exhausted && s.cursor != ""
}

// Last returns the result of the most recent Start or Refresh.
func (s *Session) Last() FeedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// reset replaces the accumulated state with a single page.
// Caller must hold s.mu.
func (s *Session) reset(page FeedPage) {
	s.listings = s.listings[:0]
	s.seen = make(map[string]bool)
	s.cursor = page.NextCursor
	s.exhausted = page.NextCursor == ""
	s.append(page.Listings)
}

// append adds unseen listings in order. Caller must hold s.mu.
func (s *Session) append(listings []Listing) {
	for _, l := range listings {
		if s.seen[l.ID] {
			continue
		}
		s.seen[l.ID] = true
		s.listings = append(s.listings, l)
	}
}
