package auth

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestKeyFromRequest(t *testing.T) {
	t.Run("x-api-key header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderAPIKey, "key-1")
		if got := KeyFromRequest(r); got != "key-1" {
			t.Fatalf("KeyFromRequest() = %q", got)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer key-2")
		if got := KeyFromRequest(r); got != "key-2" {
			t.Fatalf("KeyFromRequest() = %q", got)
		}
	})

	t.Run("x-api-key wins over bearer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderAPIKey, "key-1")
		r.Header.Set("Authorization", "Bearer key-2")
		if got := KeyFromRequest(r); got != "key-1" {
			t.Fatalf("KeyFromRequest() = %q", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		if got := KeyFromRequest(r); got != "" {
			t.Fatalf("KeyFromRequest() = %q, want empty", got)
		}
	})
}

func TestValidateKey(t *testing.T) {
	if !ValidateKey("anything") {
		t.Fatal("non-empty key should validate")
	}
	if ValidateKey("") || ValidateKey("   ") {
		t.Fatal("empty or blank key should not validate")
	}
}

func TestKeyLimiter_Budget(t *testing.T) {
	l := NewKeyLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.Allow("key-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("key-a") {
		t.Fatal("request over budget should be denied")
	}

	// Other keys have their own budget.
	if !l.Allow("key-b") {
		t.Fatal("a different key should not share the budget")
	}
}

func TestKeyLimiter_WindowRollover(t *testing.T) {
	l := NewKeyLimiter(1)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("key") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("key") {
		t.Fatal("second request in the same window should be denied")
	}

	now = now.Add(time.Minute)
	if !l.Allow("key") {
		t.Fatal("request in the next window should be allowed")
	}
}

func TestKeyLimiter_EvictsStaleWindows(t *testing.T) {
	l := NewKeyLimiter(5)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("key")
	now = now.Add(5 * time.Minute)
	l.Allow("key")

	l.mu.Lock()
	windows := len(l.windows["key"])
	l.mu.Unlock()
	if windows != 1 {
		t.Fatalf("stale windows not evicted: %d tracked", windows)
	}
}

func TestKeyLimiter_DefaultLimit(t *testing.T) {
	if got := NewKeyLimiter(0).Limit(); got != 100 {
		t.Fatalf("Limit() = %d, want 100", got)
	}
}
