package services

import (
	"sync"
	"time"
)

// LoginLimiter counts failed logins per identifier in a rolling window.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter blocks an identifier after max failures within window.
func NewLoginLimiter(max int, window time.Duration, now func() time.Time) *LoginLimiter {
	if now == nil {
		now = time.Now
	}
	return &LoginLimiter{
		failures: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      now,
	}
}

// Allowed reports whether identifier may attempt another login.
func (l *LoginLimiter) Allowed(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.recent(identifier)) < l.max
}

// RecordFailure counts a failed attempt.
func (l *LoginLimiter) RecordFailure(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[identifier] = append(l.recent(identifier), l.now())
}

// Reset forgets the failures of identifier after a successful login.
func (l *LoginLimiter) Reset(identifier string) {
	l.mu.Lock()
	delete(l.failures, identifier)
	l.mu.Unlock()
}

// Sweep drops identifiers with no failure inside the window and returns how many were removed.
func (l *LoginLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id := range l.failures {
		if len(l.recent(id)) == 0 {
			delete(l.failures, id)
			removed++
		}
	}
	return removed
}

// recent prunes and returns the failures of identifier inside the window. Caller holds mu.
func (l *LoginLimiter) recent(identifier string) []time.Time {
	attempts := l.failures[identifier]
	cutoff := l.now().Add(-l.window)
	i := 0
	for i < len(attempts) && !attempts[i].After(cutoff) {
		i++
	}
	attempts = attempts[i:]
	if len(attempts) == 0 {
		delete(l.failures, identifier)
		return nil
	}
	l.failures[identifier] = attempts
	return attempts
}
