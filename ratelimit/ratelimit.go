// Package ratelimit provides a local fixed-window token limiter. The chat
// endpoints sit in front of paid generation APIs, so the server caps how
// many requests reach them per window rather than forwarding every burst.
package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// Configuration errors.
var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrInvalidWindow   = errors.New("window must be positive")
)

type bucket struct {
	capacity int
	window   time.Duration
	tokens   int
	resetAt  time.Time
}

// Limiter tracks per-resource token buckets. Resources without a configured
// capacity are unlimited.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

// SetCapacity configures a resource to allow capacity requests per window.
func (l *Limiter) SetCapacity(resource string, capacity int, window time.Duration) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	if window <= 0 {
		return ErrInvalidWindow
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets[resource] = &bucket{
		capacity: capacity,
		window:   window,
		tokens:   capacity,
		resetAt:  l.now().Add(window),
	}
	return nil
}

// TryAcquire takes a token for the resource without blocking. Unknown
// resources always succeed.
func (l *Limiter) TryAcquire(resource string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[resource]
	if !ok {
		return true
	}

	now := l.now()
	if !now.Before(b.resetAt) {
		b.tokens = b.capacity
		b.resetAt = now.Add(b.window)
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Remaining reports how many tokens the resource has left in the current
// window; ok is false for unlimited resources.
func (l *Limiter) Remaining(resource string) (remaining int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, found := l.buckets[resource]
	if !found {
		return 0, false
	}
	if !l.now().Before(b.resetAt) {
		return b.capacity, true
	}
	return b.tokens, true
}
