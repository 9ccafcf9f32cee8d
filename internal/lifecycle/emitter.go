package lifecycle

import (
	"github.com/e7canasta/notifier-bridge/internal/delivery"
	"github.com/e7canasta/notifier-bridge/internal/envelope"
	"github.com/e7canasta/notifier-bridge/internal/source"
)

// emitter turns produced lines into envelopes and hands them to the worker's
// delivery channel. Used only from the worker goroutine.
type emitter struct {
	slot   *Slot
	w      *worker
	sink   delivery.Sink // nil in pull mode
	source string
	seq    uint64
}

// Running reads the worker's cancellation flag.
func (e *emitter) Running() bool {
	e.slot.mu.RLock()
	defer e.slot.mu.RUnlock()
	return e.w.running
}

// Emit implements source.Emitter.
//
// Pull: flag check and enqueue happen in one critical section, so nothing is
// enqueued after Stop cleared the flag.
// Push: the callback runs with no lock held.
func (e *emitter) Emit(text string, color envelope.Color) error {
	s := e.slot

	if e.w.mode == delivery.ModePull {
		s.mu.Lock()
		if !e.w.running {
			s.mu.Unlock()
			return source.ErrStopped
		}
		e.seq++
		s.queue.Append(envelope.New(e.seq, e.source, text, color))
		s.metrics.QueueDepth(s.queue.Len())
		s.mu.Unlock()

		e.produced()
		return nil
	}

	if !e.Running() {
		return source.ErrStopped
	}

	e.seq++
	e.sink.Deliver(envelope.New(e.seq, e.source, text, color))

	e.produced()
	return nil
}

func (e *emitter) produced() {
	s := e.slot
	s.produced.Add(1)
	s.delivered.Add(1)
	s.metrics.Produced(e.source)
	s.metrics.Delivered(e.w.mode.String())
}
