// Package ratelimit implements the client-side search submission quota.
//
// The limiter holds a fixed number of slots. Each acquired slot expires
// independently a fixed duration after it was acquired, so capacity is
// restored one slot at a time rather than on a window boundary.
package ratelimit

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

const (
	// DefaultCapacity is the maximum number of submissions per window.
	DefaultCapacity = 10

	// DefaultSlotTTL is the lifetime of each acquired slot.
	DefaultSlotTTL = 60 * time.Second
)

// Limiter is a non-blocking slot-based quota gate. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	capacity int
	slotTTL  time.Duration
	active   int
	logger   arbor.ILogger

	// afterFunc schedules slot expiry; replaceable in tests.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// New creates a limiter. Non-positive capacity or TTL fall back to defaults.
func New(capacity int, slotTTL time.Duration, logger arbor.ILogger) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if slotTTL <= 0 {
		slotTTL = DefaultSlotTTL
	}
	return &Limiter{
		capacity:  capacity,
		slotTTL:   slotTTL,
		logger:    logger,
		afterFunc: time.AfterFunc,
	}
}

// TryAcquire consumes one slot when capacity remains. It returns false and
// leaves state unchanged when the quota is exhausted. Callers must treat
// false as an immediate rejection, not a wait.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active >= l.capacity {
		if l.logger != nil {
			l.logger.Debug().
				Int("active", l.active).
				Int("capacity", l.capacity).
				Msg("Rate limit reached, rejecting submission")
		}
		return false
	}

	l.active++
	l.afterFunc(l.slotTTL, l.release)
	return true
}

// release expires one slot. Runs on the slot's own timer goroutine.
func (l *Limiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		l.active--
	}
}

// Active returns the number of currently occupied slots.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Capacity returns the configured slot capacity.
func (l *Limiter) Capacity() int {
	return l.capacity
}
