package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by a client's outbound requests.
// Tokens refill continuously at requestsPerMinute/60 per second and cap at
// the per-minute limit.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	tokens            float64
	lastUpdate        time.Time

	totalConsumed int64
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute
// requests per minute. Non-positive values fall back to 60.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokens:            float64(requestsPerMinute),
		lastUpdate:        time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1.0 {
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		}
		needed := 1.0 - r.tokens
		rate := float64(r.requestsPerMinute) / 60.0
		wait := time.Duration(needed / rate * float64(time.Second))
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// RateLimiterStatus is a snapshot of a limiter's budget.
type RateLimiterStatus struct {
	// Limit is requests per minute.
	Limit int `json:"limit"`
	// Available is the number of whole tokens currently in the bucket.
	Available int `json:"available"`
	// Consumed is the number of tokens taken since creation.
	Consumed int64 `json:"consumed"`
}

// Status reports the limiter's current budget.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	return RateLimiterStatus{
		Limit:     r.requestsPerMinute,
		Available: int(r.tokens),
		Consumed:  r.totalConsumed,
	}
}

// refill adds tokens for elapsed time. Caller must hold the lock.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now

	r.tokens += elapsed * float64(r.requestsPerMinute) / 60.0
	if r.tokens > float64(r.requestsPerMinute) {
		r.tokens = float64(r.requestsPerMinute)
	}
}
