package ratelimit

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// fakeClock is an adjustable clock for deterministic window expiry.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewLimiterWithClock(clock.now), clock
}

func TestCheck_WindowBoundary(t *testing.T) {
	l, _ := newTestLimiter()

	// Exactly maxRequests calls pass.
	for i := 0; i < 5; i++ {
		d := l.Check("suggestions", "1.2.3.4", 5, 60)
		if !d.Allowed {
			t.Fatalf("call %d rejected, want allowed", i+1)
		}
	}

	// The (max+1)-th call is rejected with a positive retry delay.
	d := l.Check("suggestions", "1.2.3.4", 5, 60)
	if d.Allowed {
		t.Fatal("6th call allowed, want rejected")
	}
	if d.RetryAfterSeconds <= 0 {
		t.Errorf("RetryAfterSeconds = %d, want > 0", d.RetryAfterSeconds)
	}
}

func TestCheck_61stRejected(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 60; i++ {
		if d := l.Check("suggestions", "10.0.0.1", 60, 60); !d.Allowed {
			t.Fatalf("call %d rejected within limit", i+1)
		}
	}
	d := l.Check("suggestions", "10.0.0.1", 60, 60)
	if d.Allowed || d.RetryAfterSeconds <= 0 {
		t.Errorf("61st call: %+v, want rejection with positive retry", d)
	}
}

func TestCheck_WindowExpiry(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 3; i++ {
		l.Check("suggestions", "1.2.3.4", 2, 60)
	}
	if d := l.Check("suggestions", "1.2.3.4", 2, 60); d.Allowed {
		t.Fatal("over-limit call allowed")
	}

	// First call after resetAt opens a fresh window and passes.
	clock.advance(61 * time.Second)
	if d := l.Check("suggestions", "1.2.3.4", 2, 60); !d.Allowed {
		t.Error("call after window expiry rejected")
	}
}

func TestCheck_RetryAfterMatchesWindowRemainder(t *testing.T) {
	l, clock := newTestLimiter()

	l.Check("suggestions", "1.2.3.4", 1, 60)
	clock.advance(20 * time.Second)
	d := l.Check("suggestions", "1.2.3.4", 1, 60)
	if d.Allowed {
		t.Fatal("second call allowed with max 1")
	}
	if d.RetryAfterSeconds != 40 {
		t.Errorf("RetryAfterSeconds = %d, want 40", d.RetryAfterSeconds)
	}
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	l.Check("suggestions", "1.2.3.4", 1, 60)
	if d := l.Check("suggestions", "5.6.7.8", 1, 60); !d.Allowed {
		t.Error("different client shares window")
	}
	if d := l.Check("other-route", "1.2.3.4", 1, 60); !d.Allowed {
		t.Error("different route shares window")
	}
}

func TestCleanup_SweepsExpiredWindows(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 100; i++ {
		l.Check("suggestions", fmt.Sprintf("10.0.0.%d", i), 5, 30)
	}
	if l.Len() != 100 {
		t.Fatalf("Len = %d, want 100", l.Len())
	}

	// All windows expired; next check (past the cleanup interval) sweeps.
	clock.advance(2 * time.Minute)
	l.Check("suggestions", "fresh-client", 5, 30)
	if got := l.Len(); got != 1 {
		t.Errorf("Len after sweep = %d, want 1", got)
	}
}

func TestCheck_WindowReplacementKeepsOneOrderEntry(t *testing.T) {
	l, clock := newTestLimiter()

	// Drive one client through many expired 1s windows. Each call lands
	// after the previous window's resetAt and replaces it; the insertion
	// log must hold one entry for the key no matter how long the client
	// stays active.
	for i := 0; i < 100; i++ {
		if d := l.Check("suggestions", "1.2.3.4", 5, 1); !d.Allowed {
			t.Fatalf("call %d rejected", i+1)
		}
		clock.advance(10 * time.Second)
	}

	l.mu.Lock()
	entries := len(l.order)
	l.mu.Unlock()
	if entries != 1 {
		t.Errorf("order entries = %d, want 1 for one live window", entries)
	}
}

func TestCleanup_EvictsOldestAtCap(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i <= maxEntries; i++ {
		l.Check("suggestions", fmt.Sprintf("c%d", i), 5, 3600)
	}
	if got := l.Len(); got != maxEntries+1 {
		t.Fatalf("Len = %d, want %d", got, maxEntries+1)
	}

	// Next sweep: nothing has expired, so the hard cap evicts the
	// first-inserted window and only that one.
	clock.advance(2 * time.Minute)
	l.Check("suggestions", "fresh", 5, 3600)

	l.mu.Lock()
	_, oldest := l.windows["suggestions:c0"]
	_, second := l.windows["suggestions:c1"]
	l.mu.Unlock()
	if oldest {
		t.Error("oldest window survived eviction at cap")
	}
	if !second {
		t.Error("second-oldest window evicted, want kept")
	}
}

func TestCleanup_ThrottledByInterval(t *testing.T) {
	l, clock := newTestLimiter()

	l.Check("suggestions", "1.2.3.4", 5, 1)
	clock.advance(10 * time.Second) // window expired, but interval not elapsed
	l.Check("suggestions", "5.6.7.8", 5, 1)
	if got := l.Len(); got != 2 {
		t.Errorf("Len = %d, want 2 (no sweep before interval)", got)
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter()
	l.Check("suggestions", "1.2.3.4", 5, 60)
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", l.Len())
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"x-real-ip wins", map[string]string{"x-real-ip": "1.2.3.4", "x-forwarded-for": "5.6.7.8"}, "1.2.3.4"},
		{"first forwarded hop", map[string]string{"x-forwarded-for": "5.6.7.8, 9.9.9.9"}, "5.6.7.8"},
		{"forwarded hop trimmed", map[string]string{"x-forwarded-for": " 5.6.7.8 ,9.9.9.9"}, "5.6.7.8"},
		{"no headers", nil, "unknown"},
		{"empty forwarded", map[string]string{"x-forwarded-for": ""}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, "/api/suggestions", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientKey(r); got != tt.want {
				t.Errorf("ClientKey = %q, want %q", got, tt.want)
			}
		})
	}
}
