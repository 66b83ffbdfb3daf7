package httputil

import "sync/atomic"

// Semaphore bounds concurrent fire-and-forget operations so a burst of
// notification dispatches cannot accumulate goroutines without limit.
type Semaphore struct {
	sem     chan struct{}
	dropped atomic.Int64
}

// NewSemaphore creates a semaphore with the given capacity.
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		capacity = 32
	}
	return &Semaphore{sem: make(chan struct{}, capacity)}
}

// TryAcquire attempts to take a slot without blocking. Returns false when at
// capacity; the caller should drop the operation and move on.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Release returns a slot. Must follow a successful TryAcquire.
func (s *Semaphore) Release() {
	select {
	case <-s.sem:
	default:
	}
}

// InUse returns the number of slots currently held.
func (s *Semaphore) InUse() int { return len(s.sem) }

// Dropped returns how many operations were rejected at capacity.
func (s *Semaphore) Dropped() int64 { return s.dropped.Load() }
