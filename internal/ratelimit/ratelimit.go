// Package ratelimit implements fixed-window request counting keyed by
// client identity. Counters live in a Store so the in-memory map can be
// swapped for a shared cache without touching callers.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Relay policy: five messages per sender identity per hour.
const (
	DefaultMaxRequests = 5
	DefaultWindow      = time.Hour
)

// FallbackKey buckets requests whose client identity could not be
// determined. Coarse on purpose: anonymous traffic shares one window
// rather than bypassing the limiter.
const FallbackKey = "unknown-client"

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int
}

// Store holds per-key counters. Increment bumps the counter for key,
// resetting it first if the window that started at windowStart has
// elapsed, and returns the post-increment count and the current
// window's start.
type Store interface {
	Increment(key string, window time.Duration) (count int, windowStart time.Time, err error)
}

// Limiter applies a fixed-window policy on top of a Store.
type Limiter struct {
	store       Store
	maxRequests int
	window      time.Duration
}

// New creates a Limiter backed by an in-process store.
func New(maxRequests int, window time.Duration) *Limiter {
	return NewWithStore(newMemoryStore(), maxRequests, window)
}

// NewWithStore creates a Limiter on an externally supplied store.
func NewWithStore(store Store, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{store: store, maxRequests: maxRequests, window: window}
}

// Check records one request for key and decides whether it is admitted.
// It never returns an error: a failing store denies the request (fail
// closed) so a broken cache cannot disable abuse protection. An empty
// key falls back to FallbackKey.
func (l *Limiter) Check(key string) Decision {
	if key == "" {
		key = FallbackKey
	}

	count, windowStart, err := l.store.Increment(key, l.window)
	if err != nil {
		return Decision{Allowed: false, RetryAfterSeconds: ceilSeconds(l.window)}
	}

	if count > l.maxRequests {
		remaining := time.Until(windowStart.Add(l.window))
		return Decision{Allowed: false, RetryAfterSeconds: ceilSeconds(remaining)}
	}
	return Decision{Allowed: true}
}

// StartCleanup launches a background sweep that drops expired counters,
// stopping when ctx is cancelled. Only meaningful for the in-process
// store; a shared cache expires its own keys.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ms, ok := l.store.(*memoryStore)
	if !ok {
		return
	}
	go ms.cleanupLoop(ctx, interval, l.window)
}

func ceilSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// memoryStore is the process-local Store. A single mutex serializes
// the read-reset-increment sequence so two concurrent requests for the
// same key cannot both observe a free slot.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*windowEntry)}
}

func (s *memoryStore) Increment(key string, window time.Duration) (int, time.Time, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &windowEntry{windowStart: now}
		s.entries[key] = e
	}
	if now.Sub(e.windowStart) >= window {
		e.count = 0
		e.windowStart = now
	}
	e.count++
	return e.count, e.windowStart, nil
}

func (s *memoryStore) cleanupLoop(ctx context.Context, interval, window time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup(window)
		case <-ctx.Done():
			return
		}
	}
}

func (s *memoryStore) cleanup(window time.Duration) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if now.Sub(e.windowStart) >= window {
			delete(s.entries, key)
		}
	}
}
