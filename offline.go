package avida

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"
	"time"
)

// Monitor tracks whether the device appears to have network connectivity.
// The feed marks it on every fetch outcome: a run of consecutive
// connectivity failures flips it offline, any success flips it back.
type Monitor struct {
	mu         sync.Mutex
	online     bool
	failures   int
	threshold  int
	lastChange time.Time
}

// DefaultOfflineThreshold is how many consecutive connectivity failures it
// takes to consider the device offline.
const DefaultOfflineThreshold = 2

// NewMonitor creates a monitor that flips offline after threshold
// consecutive failures. A non-positive threshold uses the default.
func NewMonitor(threshold int) *Monitor {
	if threshold <= 0 {
		threshold = DefaultOfflineThreshold
	}
	return &Monitor{
		online:     true,
		threshold:  threshold,
		lastChange: time.Now(),
	}
}

// Online reports whether the device is considered connected.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// MarkSuccess records a successful network operation.
func (m *Monitor) MarkSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = 0
	if !m.online {
		m.online = true
		m.lastChange = time.Now()
	}
}

// MarkFailure records a connectivity failure.
func (m *Monitor) MarkFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
	if m.online && m.failures >= m.threshold {
		m.online = false
		m.lastChange = time.Now()
	}
}

// LastChange returns when the online state last flipped.
func (m *Monitor) LastChange() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastChange
}

// Probe runs fn and feeds its outcome into the monitor. Used to check
// whether connectivity is back without routing the attempt through a feed.
func (m *Monitor) Probe(ctx context.Context, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		if IsNetworkError(err) {
			m.MarkFailure()
		}
		return false
	}
	m.MarkSuccess()
	return true
}

// IsNetworkError reports whether err indicates the network is unreachable,
// as opposed to the server rejecting the request. Cancellation is the
// caller's choice, not a connectivity signal.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
