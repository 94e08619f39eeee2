package lookup

import (
	"context"
	"sync"
	"time"
)

// RateLimit caps provider calls using a sliding window.
type RateLimit struct {
	mu       sync.Mutex
	window   time.Duration
	maxReqs  int
	requests []time.Time // timestamps of recent requests
	now      func() time.Time
}

// NewRateLimit creates a rate limiter with the given window and max requests.
// A non-positive maxReqs disables limiting.
func NewRateLimit(maxReqs int, window time.Duration) *RateLimit {
	return &RateLimit{
		window:  window,
		maxReqs: maxReqs,
		now:     time.Now,
	}
}

// prune removes timestamps older than window. Must be called with mu held.
func (r *RateLimit) prune() {
	cutoff := r.now().Add(-r.window)
	i := 0
	for i < len(r.requests) && r.requests[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.requests = r.requests[i:]
	}
}

// reserve records a request if there is room, otherwise reports how long to wait.
func (r *RateLimit) reserve() (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxReqs <= 0 {
		return true, 0
	}
	r.prune()
	if len(r.requests) < r.maxReqs {
		r.requests = append(r.requests, r.now())
		return true, 0
	}
	wait := r.requests[0].Add(r.window).Sub(r.now())
	if wait <= 0 {
		wait = time.Millisecond
	}
	return false, wait
}

// Wait blocks until a request slot is free and claims it.
func (r *RateLimit) Wait(ctx context.Context) error {
	for {
		ok, wait := r.reserve()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining returns how many requests can still be made in the current window.
func (r *RateLimit) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	rem := r.maxReqs - len(r.requests)
	if rem < 0 {
		return 0
	}
	return rem
}
