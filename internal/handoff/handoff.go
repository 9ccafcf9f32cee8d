// Package handoff tracks buffers handed across the foreign boundary.
//
// The C side receives raw text pointers it must give back exactly once. The
// Ledger records every outstanding pointer so that a release of an unknown
// or already released handle is reported instead of freeing memory twice.
package handoff

import (
	"errors"
	"sync"
)

// ErrNotOutstanding is returned by Release for a handle that was never
// acquired or has already been released.
var ErrNotOutstanding = errors.New("handoff: handle not outstanding")

// ErrNilHandle is returned when a zero handle is acquired or released.
var ErrNilHandle = errors.New("handoff: nil handle")

// Handle identifies one foreign buffer (its address).
type Handle uintptr

// Ledger is the set of handles currently owned by the host.
//
// Thread-safety: Acquire runs on the worker goroutine, Release on any host
// thread; all methods are safe for concurrent use.
type Ledger struct {
	mu          sync.Mutex
	outstanding map[Handle]struct{}
	acquired    uint64
	released    uint64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{outstanding: make(map[Handle]struct{})}
}

// Acquire records that h is now owned by the host.
func (l *Ledger) Acquire(h Handle) error {
	if h == 0 {
		return ErrNilHandle
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.outstanding[h] = struct{}{}
	l.acquired++

	return nil
}

// Release records that the host gave h back. The caller frees the buffer
// only when Release returns nil.
func (l *Ledger) Release(h Handle) error {
	if h == 0 {
		return ErrNilHandle
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.outstanding[h]; !ok {
		return ErrNotOutstanding
	}
	delete(l.outstanding, h)
	l.released++

	return nil
}

// Outstanding returns the number of handles the host still owns.
func (l *Ledger) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.outstanding)
}

// Totals returns lifetime acquire and release counts.
func (l *Ledger) Totals() (acquired, released uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired, l.released
}
