// Package delivery implements the two ways an envelope reaches the host:
// immediate callback (push) or accumulation in a queue the host drains (pull).
//
// Neither variant carries its own locking. Push runs in the worker goroutine
// only; Queue is guarded by the lifecycle slot that owns it.
package delivery

import (
	"github.com/e7canasta/notifier-bridge/internal/envelope"
)

// Mode selects the delivery strategy at start time.
type Mode int

const (
	// ModePush delivers each envelope to a host callback as soon as it is produced
	ModePush Mode = iota
	// ModePull appends envelopes to a queue until the host drains it
	ModePull
)

// String returns a human-readable name for the mode
func (m Mode) String() string {
	switch m {
	case ModePush:
		return "push"
	case ModePull:
		return "pull"
	default:
		return "unknown"
	}
}

// Sink receives one envelope at a time, in production order.
type Sink interface {
	Deliver(env envelope.Envelope)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(env envelope.Envelope)

// Deliver calls f(env).
func (f SinkFunc) Deliver(env envelope.Envelope) { f(env) }

// Push hands every envelope to a host callback synchronously.
//
// The callback runs on the worker goroutine. It takes ownership of the
// envelope; the worker never touches it again. The callback MUST NOT call
// Stop on the notifier that invoked it (Stop joins the calling goroutine).
type Push struct {
	callback func(envelope.Envelope)
}

// NewPush wraps callback. A nil callback panics at construction time rather
// than inside the worker.
func NewPush(callback func(envelope.Envelope)) *Push {
	if callback == nil {
		panic("delivery: nil push callback")
	}
	return &Push{callback: callback}
}

// Deliver invokes the callback in-line.
func (p *Push) Deliver(env envelope.Envelope) {
	p.callback(env)
}

// Queue is an ordered, unbounded buffer of envelopes.
//
// Queue is NOT safe for concurrent use: the owner (lifecycle.Slot) holds its
// lock around every call.
type Queue struct {
	items []envelope.Envelope
}

// Append adds env at the tail.
func (q *Queue) Append(env envelope.Envelope) {
	q.items = append(q.items, env)
}

// Len returns the number of queued envelopes.
func (q *Queue) Len() int {
	return len(q.items)
}

// DrainInto moves every queued envelope to the tail of *dst, preserving
// order, and leaves the queue empty. Returns the number moved.
func (q *Queue) DrainInto(dst *[]envelope.Envelope) int {
	n := len(q.items)
	if n == 0 {
		return 0
	}

	*dst = append(*dst, q.items...)

	// Fresh backing array: dst may alias the old one after append.
	q.items = nil

	return n
}

// Reset discards every queued envelope and returns how many were dropped.
func (q *Queue) Reset() int {
	n := len(q.items)
	q.items = nil
	return n
}
