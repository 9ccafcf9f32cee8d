package main

import (
	"sync"

	notifier "github.com/e7canasta/notifier-bridge"
)

// hostQueue is the container behind a notifier_queue_new handle. Messages
// stay Go values until popped, so a freed queue leaks no C memory.
type hostQueue struct {
	mu      sync.Mutex
	pending []notifier.Envelope
	head    int
}

// syncFrom appends everything the notifier has queued, in production order.
func (q *hostQueue) syncFrom(n *notifier.Notifier) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head > 0 {
		q.pending = append(q.pending[:0], q.pending[q.head:]...)
		q.head = 0
	}
	n.SyncProcessQueue(&q.pending)
}

func (q *hostQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) - q.head
}

// pop removes the oldest envelope.
func (q *hostQueue) pop() (notifier.Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.pending) {
		return notifier.Envelope{}, false
	}

	env := q.pending[q.head]
	q.pending[q.head] = notifier.Envelope{}
	q.head++

	return env, true
}
