// Package lifecycle owns the single worker slot of a notifier: the start/stop
// state machine, the cooperative-cancellation flag and the pull queue.
//
// Single-instance policy: one Slot holds at most one worker. Callers that
// need process-wide uniqueness (the C ABI) construct exactly one Slot.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/e7canasta/notifier-bridge/internal/delivery"
	"github.com/e7canasta/notifier-bridge/internal/envelope"
	"github.com/e7canasta/notifier-bridge/internal/metrics"
	"github.com/e7canasta/notifier-bridge/internal/source"
)

// Version returns the notifier protocol revision. No locking, no side effects.
func Version() uint64 {
	return envelope.ProtocolVersion
}

// PanicError is the terminal error of a worker that panicked (in the source
// or in a push callback). Callers treat it as unrecoverable.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("notifier: worker panicked: %v", e.Value)
}

// worker is the handle of one running worker goroutine.
//
// running and joining are guarded by Slot.mu. err is written by the worker
// goroutine before done is closed and read only after <-done. cleared is
// closed by the joining Stop once the worker has left the slot.
type worker struct {
	mode      delivery.Mode
	done      chan struct{}
	cleared   chan struct{}
	cancel    context.CancelFunc
	startedAt time.Time

	running bool // cooperative-cancellation flag
	joining bool // a Stop call owns the join

	err error
}

// Slot is the lifecycle state of one notifier.
//
// Goroutine topology:
//   - 0 or 1 worker goroutine (spawned by Start, joined by Stop)
//   - N host goroutines calling Start/Stop/Drain/Stats concurrently
//
// Locking: mu guards worker, the cancellation flag and queue. It is held only
// for check-and-set (Start), flag flip and handle take (Stop), enqueue and
// drain; never across the join, the source loop or a push callback.
type Slot struct {
	src     source.Source
	metrics *metrics.Collector

	mu      sync.RWMutex
	worker  *worker
	queue   delivery.Queue
	lastErr error

	// Statistics (atomic for lock-free Stats)
	starts    atomic.Uint64
	produced  atomic.Uint64
	delivered atomic.Uint64
	drained   atomic.Uint64
	drains    atomic.Uint64
	discarded atomic.Uint64

	window metrics.DrainWindow
}

// New creates an empty slot bound to src. m may be nil.
func New(src source.Source, m *metrics.Collector) *Slot {
	if src == nil {
		panic("lifecycle: nil source")
	}
	return &Slot{
		src:     src,
		metrics: m,
	}
}

// StartPush starts a worker delivering every envelope to sink in-line.
//
// Returns false without spawning anything if a worker already occupies the
// slot (running, finished but not yet stopped, or being stopped).
func (s *Slot) StartPush(ctx context.Context, sink delivery.Sink) bool {
	if sink == nil {
		panic("lifecycle: nil push sink")
	}
	return s.start(ctx, delivery.ModePush, sink)
}

// StartPull starts a worker accumulating envelopes in the slot queue.
//
// Same occupancy rule as StartPush.
func (s *Slot) StartPull(ctx context.Context) bool {
	return s.start(ctx, delivery.ModePull, nil)
}

func (s *Slot) start(ctx context.Context, mode delivery.Mode, sink delivery.Sink) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		slog.Debug("notifier: start ignored, worker already present",
			"mode", mode.String(),
			"current_mode", s.worker.mode.String(),
		)
		return false
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w := &worker{
		mode:      mode,
		done:      make(chan struct{}),
		cleared:   make(chan struct{}),
		cancel:    cancel,
		startedAt: time.Now(),
		running:   true,
	}

	s.worker = w
	s.lastErr = nil
	if mode == delivery.ModePull {
		s.queue.Reset()
		s.metrics.QueueDepth(0)
	}

	em := &emitter{
		slot:   s,
		w:      w,
		sink:   sink,
		source: s.src.Name(),
	}

	go s.run(workerCtx, w, em)

	s.starts.Add(1)
	s.metrics.WorkerStarted(mode.String())

	slog.Info("notifier: worker started",
		"mode", mode.String(),
		"source", s.src.Name(),
		"version", Version(),
	)

	return true
}

// run is the worker goroutine body.
func (s *Slot) run(ctx context.Context, w *worker, em *emitter) {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.err = &PanicError{Value: r, Stack: debug.Stack()}
			slog.Error("notifier: worker panicked",
				"panic", fmt.Sprint(r),
				"source", em.source,
				"produced", em.seq,
			)
		}
	}()

	err := s.src.Run(ctx, em)
	if err != nil && source.Stopped(err) {
		err = nil
	}
	w.err = err

	if err != nil {
		// Fatal to the worker: the host only sees that events stop arriving
		slog.Error("notifier: worker terminated",
			"error", err,
			"category", source.Classify(err).String(),
			"source", em.source,
			"produced", em.seq,
			"uptime", time.Since(w.startedAt),
		)
		return
	}

	slog.Debug("notifier: worker loop finished",
		"source", em.source,
		"produced", em.seq,
	)
}

// Stop signals the worker and blocks until it has exited.
//
// Behavior:
//  1. No worker: returns nil immediately
//  2. Clears the cancellation flag and cancels the worker context (lock held)
//  3. Joins the worker (lock released, no timeout)
//  4. Empties the slot and tears down the pull queue (lock held)
//
// Cancellation is cooperative: a worker blocked in an external receive only
// exits after its next event or connection end, so Stop may block that long.
//
// The handle stays in the slot until the join completes, so a concurrent
// Start cannot spawn a second worker next to a dying one. Concurrent Stop
// calls all block until the slot is empty again; the first one returns the
// outcome, the others nil.
//
// Returns the worker's terminal error: nil for natural end or cancellation,
// *PanicError if it panicked, the classified source error otherwise.
func (s *Slot) Stop() error {
	s.mu.Lock()
	w := s.worker
	if w == nil {
		s.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	owner := !w.joining
	w.joining = true
	s.mu.Unlock()

	if owner {
		slog.Info("notifier: stop requested", "mode", w.mode.String())
	}

	if !owner {
		<-w.cleared
		return nil
	}

	<-w.done

	s.mu.Lock()
	s.worker = nil
	dropped := s.queue.Reset()
	s.lastErr = w.err
	s.metrics.QueueDepth(0)
	s.mu.Unlock()
	close(w.cleared)

	if dropped > 0 {
		s.discarded.Add(uint64(dropped))
		s.metrics.Discarded(dropped)
		slog.Warn("notifier: undrained envelopes discarded on stop", "count", dropped)
	}

	s.metrics.WorkerStopped(failureCategory(w.err))

	slog.Info("notifier: worker stopped",
		"mode", w.mode.String(),
		"uptime", time.Since(w.startedAt),
		"produced", s.produced.Load(),
		"clean", w.err == nil,
	)

	return w.err
}

func failureCategory(err error) string {
	if err == nil {
		return ""
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		return "panic"
	}
	return source.Classify(err).String()
}

// Drain moves every queued envelope to the tail of *dst in production order
// and empties the queue. Returns the number moved.
//
// Every envelope enqueued before Drain acquired the lock is delivered by this
// call or an earlier one; none is lost or duplicated.
func (s *Slot) Drain(dst *[]envelope.Envelope) int {
	s.mu.Lock()
	n := s.queue.DrainInto(dst)
	s.metrics.QueueDepth(0)
	s.mu.Unlock()

	s.drains.Add(1)
	s.drained.Add(uint64(n))
	s.window.AddSample(float64(n))
	s.metrics.Drained(n)

	return n
}

// Running reports whether a worker occupies the slot.
func (s *Slot) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worker != nil
}

// Stats returns a snapshot of the slot (non-blocking, may be slightly stale).
func (s *Slot) Stats() Stats {
	s.mu.RLock()
	st := Stats{
		Running:    s.worker != nil,
		Source:     s.src.Name(),
		QueueDepth: s.queue.Len(),
	}
	if s.worker != nil {
		st.Mode = s.worker.mode.String()
		st.Uptime = time.Since(s.worker.startedAt)
		st.Stopping = s.worker.joining
		select {
		case <-s.worker.done:
			st.Finished = true
		default:
		}
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()

	st.Starts = s.starts.Load()
	st.Produced = s.produced.Load()
	st.Delivered = s.delivered.Load()
	st.Drained = s.drained.Load()
	st.Drains = s.drains.Load()
	st.Discarded = s.discarded.Load()
	st.DrainBatch = s.window.GetStats()

	return st
}
