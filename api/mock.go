package api

import (
	"context"

	avida "github.com/kelvinofficial/avida-sub002"
)

// MockSource is a scripted listing source for testing.
type MockSource struct {
	// Pages maps a cursor to the page it returns; "" is the first page.
	Pages map[string]avida.FeedPage
	// Err, when set, is returned by every call.
	Err error
	// CallCount is the number of times FetchPage was called.
	CallCount int
	// LastQuery is the most recent request received.
	LastQuery *avida.Query
}

// NewMockSource creates a mock source serving the given pages by cursor.
func NewMockSource(pages map[string]avida.FeedPage) *MockSource {
	return &MockSource{Pages: pages}
}

// FetchPage implements ListingSource.
func (m *MockSource) FetchPage(_ context.Context, q Query) (*avida.FeedPage, error) {
	m.CallCount++
	m.LastQuery = &q

	if m.Err != nil {
		return nil, m.Err
	}

	page, ok := m.Pages[q.Cursor]
	if !ok {
		return &avida.FeedPage{}, nil
	}
	return &page, nil
}

// Verify MockSource implements ListingSource
var _ ListingSource = (*MockSource)(nil)
