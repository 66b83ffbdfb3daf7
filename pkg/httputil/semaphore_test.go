package httputil

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSemaphore_TryAcquire(t *testing.T) {
	sem := NewSemaphore(2)

	// First two should succeed
	if !sem.TryAcquire() {
		t.Error("First TryAcquire should succeed")
	}
	if !sem.TryAcquire() {
		t.Error("Second TryAcquire should succeed")
	}

	// Third should fail (at capacity)
	if sem.TryAcquire() {
		t.Error("Third TryAcquire should fail (at capacity)")
	}

	// Verify dropped count
	if sem.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", sem.Dropped())
	}

	// Release one and try again
	sem.Release()
	if !sem.TryAcquire() {
		t.Error("TryAcquire should succeed after Release")
	}
}

func TestSemaphore_Concurrent(t *testing.T) {
	sem := NewSemaphore(10)
	var acquired atomic.Int32
	var wg sync.WaitGroup

	// Try to acquire 100 times concurrently
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem.TryAcquire() {
				acquired.Add(1)
				time.Sleep(10 * time.Millisecond)
				sem.Release()
			}
		}()
	}

	wg.Wait()

	t.Logf("Concurrent test: acquired=%d, dropped=%d", acquired.Load(), sem.Dropped())

	// All should be released now
	if sem.InUse() != 0 {
		t.Errorf("Expected 0 in use after completion, got %d", sem.InUse())
	}
}

func TestNewSemaphore_DefaultCapacity(t *testing.T) {
	// Zero or negative should default to 32
	sem := NewSemaphore(0)
	if cap(sem.sem) != 32 {
		t.Errorf("Default capacity should be 32, got %d", cap(sem.sem))
	}

	sem = NewSemaphore(-5)
	if cap(sem.sem) != 32 {
		t.Errorf("Negative capacity should default to 32, got %d", cap(sem.sem))
	}
}
