// Package auth gates requests on an API key and a per-key request budget.
// Key validation is the MVP posture inherited from the service this
// replaces: any non-empty key is accepted. The limiter is a fixed-window
// per-minute counter keyed by credential, safe for parallel requests.
package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// HeaderAPIKey is the primary credential header.
const HeaderAPIKey = "X-API-Key"

// KeyFromRequest extracts the API key from the X-API-Key header or an
// Authorization bearer token. Returns "" when absent.
func KeyFromRequest(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); key != "" {
		return key
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return authz
}

// ValidateKey reports whether the key is acceptable.
func ValidateKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

// KeyLimiter counts requests per key in one-minute fixed windows. Stale
// windows are evicted on access; only the current and previous window are
// kept per key.
type KeyLimiter struct {
	mu        sync.Mutex
	perMinute int
	windows   map[string]map[int64]int
	now       func() time.Time
}

// NewKeyLimiter creates a limiter allowing perMinute requests per key per
// minute. Non-positive values fall back to 100.
func NewKeyLimiter(perMinute int) *KeyLimiter {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &KeyLimiter{
		perMinute: perMinute,
		windows:   make(map[string]map[int64]int),
		now:       time.Now,
	}
}

// Allow records one request for key and reports whether it fits the
// current window's budget.
func (l *KeyLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.now().Unix() / 60

	counts, ok := l.windows[key]
	if !ok {
		counts = make(map[int64]int)
		l.windows[key] = counts
	}

	for w := range counts {
		if w < window-1 {
			delete(counts, w)
		}
	}

	if counts[window] >= l.perMinute {
		return false
	}
	counts[window]++
	return true
}

// Limit returns the configured per-minute budget.
func (l *KeyLimiter) Limit() int {
	return l.perMinute
}
