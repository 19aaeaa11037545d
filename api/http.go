package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	avida "github.com/kelvinofficial/avida-sub002"
)

// HTTPClient talks to the marketplace listings API over REST.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	userAgent  string
}

// Config holds configuration for the HTTP client.
type Config struct {
	BaseURL    string        // API base URL (e.g., "https://api.avida.example")
	APIKey     string        // optional bearer token
	UserAgent  string        // default: avida.UserAgent()
	Timeout    time.Duration // per-request timeout (default: 10s)
	HTTPClient *http.Client  // optional custom client; Timeout is ignored if set
}

// NewHTTPClient creates a new listings API client.
func NewHTTPClient(cfg Config) *HTTPClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = avida.UserAgent()
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
	}
}

// FetchPage fetches one feed page from GET /listings.
func (c *HTTPClient) FetchPage(ctx context.Context, q Query) (*avida.FeedPage, error) {
	var page avida.FeedPage
	if err := c.get(ctx, "/listings", queryParams(q), &page); err != nil {
		return nil, err
	}
	page.FetchedAt = time.Now()
	return &page, nil
}

// GetListing fetches a single listing's detail from GET /listings/{id}.
func (c *HTTPClient) GetListing(ctx context.Context, id string) (*avida.Listing, error) {
	if id == "" {
		return nil, &avida.APIError{Message: "empty listing id"}
	}
	var listing avida.Listing
	if err := c.get(ctx, "/listings/"+url.PathEscape(id), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// Similar fetches the similar-listings rail for a listing from
// GET /listings/{id}/similar.
func (c *HTTPClient) Similar(ctx context.Context, id string, limit int) ([]avida.Listing, error) {
	if id == "" {
		return nil, &avida.APIError{Message: "empty listing id"}
	}

	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Listings []avida.Listing `json:"listings"`
	}
	if err := c.get(ctx, "/listings/"+url.PathEscape(id)+"/similar", params, &resp); err != nil {
		return nil, err
	}
	return resp.Listings, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &avida.APIError{Message: "building request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: *url.Error, lets the offline monitor
		// classify it as a connectivity problem.
		return &avida.APIError{Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &avida.APIError{
			Message:    "decoding response",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// apiErrorFromResponse maps a non-2xx response to an APIError. Rate limits
// and server errors are retryable; client errors are not.
func apiErrorFromResponse(resp *http.Response) *avida.APIError {
	message := resp.Status

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			if payload.Error != "" {
				message = payload.Error
			} else if payload.Message != "" {
				message = payload.Message
			}
		}
	}

	return &avida.APIError{
		Message:    message,
		StatusCode: resp.StatusCode,
		Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
	}
}

// queryParams translates a page request into listings API query parameters.
// Attribute filters are sent as attr.<key>=<value>.
func queryParams(q Query) url.Values {
	params := url.Values{}
	f := q.Filter

	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Subcategory != "" {
		params.Set("subcategory", f.Subcategory)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		params.Set("q", s)
	}
	if f.PriceMin > 0 {
		params.Set("price_min", strconv.FormatInt(f.PriceMin, 10))
	}
	if f.PriceMax > 0 {
		params.Set("price_max", strconv.FormatInt(f.PriceMax, 10))
	}
	if f.Location != "" {
		params.Set("location", f.Location)
	}
	if f.Sort != "" {
		params.Set("sort", string(f.Sort))
	}
	for k, v := range f.Attributes {
		params.Set(fmt.Sprintf("attr.%s", k), v)
	}

	if q.Cursor != "" {
		params.Set("cursor", q.Cursor)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return params
}

// Verify HTTPClient implements ListingSource
var _ ListingSource = (*HTTPClient)(nil)
