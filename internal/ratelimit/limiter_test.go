package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestTryAcquireCapacity(t *testing.T) {
	l := New(10, time.Hour, nil)

	for i := 0; i < 10; i++ {
		if !l.TryAcquire() {
			t.Fatalf("acquire %d should succeed", i+1)
		}
	}

	if l.TryAcquire() {
		t.Error("11th acquire should be rejected")
	}
	if got := l.Active(); got != 10 {
		t.Errorf("Active() = %d, want 10", got)
	}
}

func TestRejectionLeavesStateUnchanged(t *testing.T) {
	l := New(2, time.Hour, nil)
	l.TryAcquire()
	l.TryAcquire()

	for i := 0; i < 5; i++ {
		l.TryAcquire()
	}

	if got := l.Active(); got != 2 {
		t.Errorf("Active() = %d after rejected acquires, want 2", got)
	}
}

func TestSlotsExpireIndependently(t *testing.T) {
	l := New(2, time.Hour, nil)

	// Capture scheduled expiries instead of waiting on real timers.
	var expiries []func()
	l.afterFunc = func(d time.Duration, f func()) *time.Timer {
		expiries = append(expiries, f)
		return nil
	}

	l.TryAcquire()
	l.TryAcquire()
	if l.TryAcquire() {
		t.Fatal("limiter should be full")
	}

	// Expiring the first slot restores capacity by exactly one.
	expiries[0]()
	if got := l.Active(); got != 1 {
		t.Errorf("Active() = %d after one expiry, want 1", got)
	}
	if !l.TryAcquire() {
		t.Error("acquire should succeed after one slot expired")
	}
	if l.TryAcquire() {
		t.Error("limiter should be full again")
	}
}

func TestExpiryWithRealTimer(t *testing.T) {
	l := New(1, 30*time.Millisecond, nil)

	if !l.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if l.TryAcquire() {
		t.Fatal("second acquire should be rejected")
	}

	time.Sleep(80 * time.Millisecond)

	if !l.TryAcquire() {
		t.Error("acquire should succeed after slot TTL elapsed")
	}
}

func TestConcurrentAcquire(t *testing.T) {
	l := New(10, time.Hour, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 10 {
		t.Errorf("granted = %d, want exactly 10", granted)
	}
}

func TestDefaults(t *testing.T) {
	l := New(0, 0, nil)
	if l.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", l.Capacity(), DefaultCapacity)
	}
	if l.slotTTL != DefaultSlotTTL {
		t.Errorf("slotTTL = %v, want %v", l.slotTTL, DefaultSlotTTL)
	}
}
