// Package source defines the producer side of the notifier: something that
// yields text lines until it ends naturally, fails, or is cancelled.
package source

import (
	"context"
	"errors"

	"github.com/e7canasta/notifier-bridge/internal/envelope"
)

// ErrStopped is returned by Emitter.Emit once the worker has been asked to
// stop. Sources treat it as a clean exit signal.
var ErrStopped = errors.New("source: stopped")

// Emitter accepts produced lines on behalf of the worker.
//
// Sources MUST call it from the goroutine that runs Run.
type Emitter interface {
	// Emit checks the cooperative-cancellation flag, then delivers the line.
	// Returns ErrStopped if the flag is cleared.
	Emit(text string, color envelope.Color) error

	// Running reads the cooperative-cancellation flag without emitting.
	Running() bool
}

// Source produces lines for one worker run.
//
// Contract:
//   - Run blocks until the source ends, fails, or observes cancellation
//   - Cancellation is observed only at safe points: between lines, never
//     inside a blocking receive
//   - Natural end and cancellation return nil; anything else is fatal to
//     the worker and returned as-is (no retry)
type Source interface {
	// Name identifies the source in logs, metrics and envelopes.
	Name() string

	// Run produces lines into emit until done.
	Run(ctx context.Context, emit Emitter) error
}

// Stopped reports whether err is a cooperative stop rather than a failure.
func Stopped(err error) bool {
	return errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled)
}
