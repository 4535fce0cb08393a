// Package ratelimit implements a fixed-window in-memory request limiter
// keyed by (route, client). It is a coarse, single-process, best-effort
// throttle: abuse control here deters casual spam, it is not a security
// boundary. Lost-update races that undercount a request are tolerable.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

const (
	// maxEntries caps the window map; beyond it the oldest entries are
	// evicted by insertion order.
	maxEntries = 10_000

	// cleanupInterval bounds how often the opportunistic sweep runs.
	cleanupInterval = 60 * time.Second
)

// Decision is the limiter's verdict for one request. The limiter never
// returns errors; a rejection is a value.
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int // positive when rejected
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter holds per-(route, client) counting windows. Safe for
// concurrent use; all map operations run under one mutex.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	order       []string // insertion order, for hard-cap eviction
	now         func() time.Time
	lastCleanup time.Time
}

// NewLimiter creates a limiter on the wall clock.
func NewLimiter() *Limiter {
	return NewLimiterWithClock(time.Now)
}

// NewLimiterWithClock creates a limiter with an injected clock. Tests use
// this for deterministic window expiry.
func NewLimiterWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		windows:     make(map[string]*window),
		now:         now,
		lastCleanup: now(),
	}
}

// Check counts one request against the (route, clientKey) window. The
// first request in a window always passes and opens a fresh window;
// request maxRequests+1 within the same window is rejected with the
// seconds left until the window resets.
func (l *Limiter) Check(route, clientKey string, maxRequests, windowSeconds int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	key := route + ":" + clientKey
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		// Expired windows are replaced in place; a key appears in the
		// insertion log exactly once, or eviction would pop stale
		// duplicates and drop live windows.
		l.windows[key] = &window{
			count:   1,
			resetAt: now.Add(time.Duration(windowSeconds) * time.Second),
		}
		if !ok {
			l.order = append(l.order, key)
		}
		return Decision{Allowed: true}
	}

	w.count++
	if w.count > maxRequests {
		retryAfter := int(math.Ceil(w.resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Decision{Allowed: false, RetryAfterSeconds: retryAfter}
	}
	return Decision{Allowed: true}
}

// Reset drops all windows. For tests and admin tooling.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*window)
	l.order = nil
}

// Len reports the number of live windows.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// cleanup sweeps expired windows at most once per cleanupInterval, then
// evicts oldest-first if the map still exceeds the hard cap. Called with
// the mutex held.
func (l *Limiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}
	l.lastCleanup = now

	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}

	// Compact the insertion log to live keys only.
	live := l.order[:0]
	for _, key := range l.order {
		if _, ok := l.windows[key]; ok {
			live = append(live, key)
		}
	}
	l.order = live

	for len(l.windows) > maxEntries && len(l.order) > 0 {
		delete(l.windows, l.order[0])
		l.order = l.order[1:]
	}
}
