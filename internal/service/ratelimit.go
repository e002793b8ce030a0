package service

import (
	"sync"
	"time"
)

const (
	throttleIdleExpiry    = 10 * time.Minute
	throttleSweepInterval = 5 * time.Minute
)

// Throttle limits how often a key may attempt an operation, using a token
// bucket per key. Login attempts are throttled by client IP so a credential
// guesser cannot hammer one box account from a single address.
//
// Idle entries expire inline on the next Allow call; there is no background
// goroutine to stop.
type Throttle struct {
	mu        sync.Mutex
	entries   map[string]*tokenBucket
	refill    float64 // tokens restored per second
	burst     float64 // bucket capacity
	nextSweep time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewThrottle creates a throttle allowing burst immediate attempts per key,
// restoring refillPerSecond tokens thereafter.
func NewThrottle(refillPerSecond, burst float64) *Throttle {
	return &Throttle{
		entries:   make(map[string]*tokenBucket),
		refill:    refillPerSecond,
		burst:     burst,
		nextSweep: time.Now().Add(throttleSweepInterval),
	}
}

// Allow consumes one token for key and reports whether the attempt may
// proceed. A key with an empty bucket is denied until refill catches up.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.sweep(now)

	b, ok := t.entries[key]
	if !ok {
		b = &tokenBucket{tokens: t.burst, seen: now}
		t.entries[key] = b
	}

	elapsed := now.Sub(b.seen).Seconds()
	b.tokens = min(b.tokens+elapsed*t.refill, t.burst)
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops keys idle past the expiry. Called with the lock held.
func (t *Throttle) sweep(now time.Time) {
	if now.Before(t.nextSweep) {
		return
	}
	cutoff := now.Add(-throttleIdleExpiry)
	for key, b := range t.entries {
		if b.seen.Before(cutoff) {
			delete(t.entries, key)
		}
	}
	t.nextSweep = now.Add(throttleSweepInterval)
}
