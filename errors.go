package avida

import "fmt"

// FeedError is the base error type for feed failures.
type FeedError struct {
	Message string
	Cause   error
}

func (e *FeedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FeedError) Unwrap() error {
	return e.Cause
}

// APIError indicates a marketplace API failure (HTTP error, bad payload).
type APIError struct {
	Message    string
	StatusCode int // HTTP status, 0 when the request never got a response
	Cause      error
	Retryable  bool // whether the request can be retried
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("api error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache store failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// OfflineError is returned when the network is unreachable and no cached
// copy exists to fall back on.
type OfflineError struct {
	Cause error
}

func (e *OfflineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("offline and no cached feed available: %v", e.Cause)
	}
	return "offline and no cached feed available"
}

func (e *OfflineError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates listing attributes that do not conform to the
// category's attribute schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid attribute %q: %s", e.Field, e.Reason)
}
