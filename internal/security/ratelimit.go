package security

import (
	"sync"
	"time"
)

// RateLimiter is an in-memory sliding window limiter keyed by customer.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	now         func() time.Time
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether the customer is within the limit and, if so, records
// the request.
func (l *RateLimiter) Allow(customerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	recent := l.requests[customerID][:0]
	for _, ts := range l.requests[customerID] {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.maxRequests {
		l.requests[customerID] = recent
		return false
	}

	l.requests[customerID] = append(recent, now)
	return true
}
