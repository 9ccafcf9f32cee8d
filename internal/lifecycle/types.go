package lifecycle

import (
	"time"

	"github.com/e7canasta/notifier-bridge/internal/metrics"
)

// Stats is a snapshot of a Slot.
type Stats struct {
	// Running is true while a worker occupies the slot (including a worker
	// whose source has finished but which has not been stopped yet)
	Running bool
	// Stopping is true while a Stop call is joining the worker
	Stopping bool
	// Finished is true once the worker goroutine has exited (natural end,
	// failure or cancellation) and the slot waits for Stop
	Finished bool
	// Mode is the delivery mode of the current worker ("push", "pull"), empty when idle
	Mode string
	// Source names the event source
	Source string
	// Uptime of the current worker
	Uptime time.Duration

	// Starts counts successful Start calls
	Starts uint64
	// Produced counts envelopes created by workers (lifetime)
	Produced uint64
	// Delivered counts envelopes handed to a callback or enqueued (lifetime)
	Delivered uint64
	// Drained counts envelopes moved to the host by Drain (lifetime)
	Drained uint64
	// Drains counts Drain calls (lifetime)
	Drains uint64
	// Discarded counts queued envelopes dropped by Stop (lifetime)
	Discarded uint64
	// QueueDepth is the current pull queue length
	QueueDepth int

	// DrainBatch summarizes recent drain batch sizes
	DrainBatch metrics.DrainStats

	// LastError is the terminal error of the last stopped worker, if any
	LastError string
}
