package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	avida "github.com/kelvinofficial/avida-sub002"
)

func TestHTTPClient_FetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Missing Accept header")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization: %q", got)
		}

		q := r.URL.Query()
		checks := map[string]string{
			"category":    "vehicles",
			"subcategory": "cars",
			"q":           "kombi",
			"price_min":   "500000",
			"price_max":   "2000000",
			"location":    "arusha",
			"sort":        "price_asc",
			"attr.fuel":   "diesel",
			"cursor":      "c2",
			"limit":       "20",
		}
		for key, want := range checks {
			if got := q.Get(key); got != want {
				t.Errorf("Query param %s = %q, want %q", key, got, want)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(avida.FeedPage{
			Listings:   []avida.Listing{{ID: "a1", Title: "Toyota"}},
			NextCursor: "c3",
		})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL, APIKey: "test-key"})

	page, err := client.FetchPage(context.Background(), Query{
		Filter: avida.ListingFilter{
			Category:    "vehicles",
			Subcategory: "cars",
			Query:       "  kombi  ",
			PriceMin:    500000,
			PriceMax:    2000000,
			Location:    "arusha",
			Sort:        avida.SortPriceAsc,
			Attributes:  map[string]string{"fuel": "diesel"},
		},
		Cursor: "c2",
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if len(page.Listings) != 1 || page.Listings[0].ID != "a1" {
		t.Errorf("Unexpected page: %+v", page)
	}
	if page.NextCursor != "c3" {
		t.Errorf("Unexpected cursor: %s", page.NextCursor)
	}
	if page.FetchedAt.IsZero() {
		t.Error("FetchedAt should be stamped")
	}
}

func TestHTTPClient_EmptyFilterSendsNoParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query params, got %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(avida.FeedPage{})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})
	if _, err := client.FetchPage(context.Background(), Query{}); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantMessage   string
		wantRetryable bool
	}{
		{
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			body:          `{"error":"rate limit exceeded"}`,
			wantMessage:   "rate limit exceeded",
			wantRetryable: true,
		},
		{
			name:          "server error",
			status:        http.StatusBadGateway,
			body:          `{"message":"upstream timeout"}`,
			wantMessage:   "upstream timeout",
			wantRetryable: true,
		},
		{
			name:          "not found",
			status:        http.StatusNotFound,
			body:          "",
			wantMessage:   "404 Not Found",
			wantRetryable: false,
		},
		{
			name:          "bad request with unparseable body",
			status:        http.StatusBadRequest,
			body:          "<html>nope</html>",
			wantMessage:   "400 Bad Request",
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient(Config{BaseURL: server.URL})
			_, err := client.FetchPage(context.Background(), Query{})
			if err == nil {
				t.Fatal("Expected error")
			}

			var apiErr *avida.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *avida.APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", apiErr.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestHTTPClient_TransportErrorIsNetworkError(t *testing.T) {
	// Point at a closed port
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})
	_, err := client.FetchPage(context.Background(), Query{})
	if err == nil {
		t.Fatal("Expected transport error")
	}

	var apiErr *avida.APIError
	if !errors.As(err, &apiErr) || !apiErr.Retryable {
		t.Errorf("Expected retryable APIError, got %v", err)
	}
	if !avida.IsNetworkError(err) {
		t.Errorf("Transport failure should classify as a network error: %v", err)
	}
}

func TestHTTPClient_GetListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings/abc-123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(avida.Listing{ID: "abc-123", Title: "Sofa"})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})
	listing, err := client.GetListing(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("GetListing failed: %v", err)
	}
	if listing.Title != "Sofa" {
		t.Errorf("Unexpected listing: %+v", listing)
	}
}

func TestHTTPClient_GetListing_EmptyID(t *testing.T) {
	client := NewHTTPClient(Config{BaseURL: "http://localhost:0"})
	if _, err := client.GetListing(context.Background(), ""); err == nil {
		t.Error("Expected error for empty id")
	}
}

func TestHTTPClient_Similar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings/abc/similar" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "4" {
			t.Errorf("limit = %q, want 4", got)
		}
		_, _ = w.Write([]byte(`{"listings":[{"id":"s1"},{"id":"s2"}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})
	similar, err := client.Similar(context.Background(), "abc", 4)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(similar) != 2 {
		t.Errorf("Expected 2 similar listings, got %d", len(similar))
	}
}

func TestHTTPClient_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			t.Errorf("Double slash in path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(avida.FeedPage{})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL + "/"})
	if _, err := client.FetchPage(context.Background(), Query{}); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
}

func TestMockSource(t *testing.T) {
	mock := NewMockSource(map[string]avida.FeedPage{
		"":   {Listings: []avida.Listing{{ID: "a"}}, NextCursor: "c2"},
		"c2": {Listings: []avida.Listing{{ID: "b"}}},
	})

	page, err := mock.FetchPage(context.Background(), Query{})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if page.NextCursor != "c2" {
		t.Errorf("Unexpected cursor: %s", page.NextCursor)
	}

	page, err = mock.FetchPage(context.Background(), Query{Cursor: "c2"})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Listings) != 1 || page.Listings[0].ID != "b" {
		t.Errorf("Unexpected page: %+v", page)
	}

	// Unknown cursor yields an empty page
	page, err = mock.FetchPage(context.Background(), Query{Cursor: "nope"})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Listings) != 0 || page.NextCursor != "" {
		t.Errorf("Expected empty page, got %+v", page)
	}

	if mock.CallCount != 3 {
		t.Errorf("CallCount = %d, want 3", mock.CallCount)
	}
	if mock.LastQuery.Cursor != "nope" {
		t.Errorf("LastQuery not recorded: %+v", mock.LastQuery)
	}
}
