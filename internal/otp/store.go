// Package otp issues and verifies one-time numeric codes keyed by an email
// address or mobile number.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"sync"
	"time"
)

var (
	// ErrNotFound means no code is pending for the identifier.
	ErrNotFound = errors.New("no pending code for identifier")
	// ErrExpired means the pending code outlived its TTL. The entry is removed.
	ErrExpired = errors.New("code has expired")
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

type entry struct {
	code      string
	expiresAt time.Time
}

// Store keeps at most one pending code per identifier. A code is consumed by
// the first verification attempt, whether it matches or not.
type Store struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	length   int
	now      func() time.Time
	generate func(length int) (string, error)
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithGenerator replaces the random code generator.
func WithGenerator(generate func(length int) (string, error)) Option {
	return func(s *Store) { s.generate = generate }
}

// NewStore creates a Store issuing codes of the given length that expire after ttl.
func NewStore(length int, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		entries:  make(map[string]entry),
		ttl:      ttl,
		length:   length,
		now:      time.Now,
		generate: RandomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a code for identifier, replacing any pending one.
func (s *Store) Issue(identifier string) (string, error) {
	code, err := s.generate(s.length)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[identifier] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return code, nil
}

// Verify consumes the pending code for identifier and reports whether code matches it.
func (s *Store) Verify(identifier, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[identifier]
	if !ok {
		return false, ErrNotFound
	}
	delete(s.entries, identifier)

	if s.now().After(e.expiresAt) {
		return false, ErrExpired
	}
	return subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) == 1, nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of pending codes, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunJanitor calls Sweep every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 && onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

// RandomCode returns a uniformly random string of length decimal digits.
func RandomCode(length int) (string, error) {
	digits := make([]byte, length)
	ten := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
