package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/e7canasta/notifier-bridge/internal/delivery"
	"github.com/e7canasta/notifier-bridge/internal/envelope"
	"github.com/e7canasta/notifier-bridge/internal/lifecycle"
	"github.com/e7canasta/notifier-bridge/internal/metrics"
	"github.com/e7canasta/notifier-bridge/internal/source"
	"github.com/e7canasta/notifier-bridge/internal/source/chat"
)

// Envelope is re-exported from internal package.
// See internal/envelope for full documentation.
type Envelope = envelope.Envelope

// Color is re-exported from internal package.
type Color = envelope.Color

// Stats is re-exported from internal package.
// See internal/lifecycle/types.go for full documentation.
type Stats = lifecycle.Stats

// PanicError is returned by Stop when the worker panicked.
type PanicError = lifecycle.PanicError

// SyntheticConfig configures the counting source.
type SyntheticConfig = source.SyntheticConfig

// ChatConfig configures the chat source.
type ChatConfig = chat.Config

// Named colors used by the built-in sources.
var (
	ColorStartup   = envelope.ColorStartup
	ColorCounter   = envelope.ColorCounter
	ColorConnected = envelope.ColorConnected
	ColorRaw       = envelope.ColorRaw
)

// ErrInvalidConfig is wrapped by every error New returns for a bad Config.
var ErrInvalidConfig = errors.New("notifier: invalid config")

// SourceKind selects the event source.
type SourceKind string

const (
	// SourceSynthetic is the bounded counter.
	SourceSynthetic SourceKind = "synthetic"
	// SourceChat is the live chat line stream.
	SourceChat SourceKind = "chat"
)

// Config configures a Notifier.
type Config struct {
	// Source selects the event source (default: synthetic)
	Source SourceKind

	// Synthetic configures the synthetic source
	Synthetic SyntheticConfig

	// Chat configures the chat source (Channel required when Source is chat)
	Chat ChatConfig

	// Metrics registers the notifier_* collectors when set (nil disables)
	Metrics prometheus.Registerer
}

// DefaultConfig returns a synthetic notifier with production defaults
// (65536 counter lines, 1ms apart).
func DefaultConfig() Config {
	return Config{
		Source:    SourceSynthetic,
		Synthetic: source.DefaultSyntheticConfig(),
		Chat: ChatConfig{
			URL: chat.DefaultURL,
		},
	}
}

// Version returns the protocol revision (2). Never blocks.
func Version() uint64 {
	return lifecycle.Version()
}

// Notifier is one worker slot plus its event source.
//
// Lifecycle: New() → StartPush()/StartPull() → [SyncProcessQueue()] → Stop()
//
// Thread-safety: all methods are safe for concurrent use. Push callbacks MUST
// NOT call Stop on the Notifier that invoked them.
type Notifier struct {
	slot *lifecycle.Slot
}

// New validates cfg (fail-fast) and builds the source. No goroutine is
// started until StartPush or StartPull.
func New(cfg Config) (*Notifier, error) {
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	var m *metrics.Collector
	if cfg.Metrics != nil {
		m, err = metrics.New(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("notifier: metrics: %w", err)
		}
	}

	return &Notifier{slot: lifecycle.New(src, m)}, nil
}

func newSource(cfg Config) (source.Source, error) {
	switch cfg.Source {
	case SourceSynthetic, "":
		src, err := source.NewSynthetic(cfg.Synthetic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return src, nil

	case SourceChat:
		src, err := chat.New(cfg.Chat)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return src, nil

	default:
		return nil, fmt.Errorf("%w: unknown source %q (want %q or %q)",
			ErrInvalidConfig, cfg.Source, SourceSynthetic, SourceChat)
	}
}

// StartPush starts the worker in push mode: callback receives every envelope
// in production order, on the worker goroutine.
//
// Returns false (and spawns nothing) if a worker already occupies the slot.
// A nil callback panics.
func (n *Notifier) StartPush(ctx context.Context, callback func(Envelope)) bool {
	return n.slot.StartPush(ctx, delivery.NewPush(callback))
}

// StartPull starts the worker in pull mode. Envelopes accumulate until
// SyncProcessQueue drains them.
//
// Silently does nothing if a worker already occupies the slot; use Running
// to find out beforehand.
func (n *Notifier) StartPull(ctx context.Context) {
	n.slot.StartPull(ctx)
}

// Running reports whether a worker occupies the slot.
func (n *Notifier) Running() bool {
	return n.slot.Running()
}

// Stop signals the worker and blocks until it exits. Idempotent.
//
// Returns nil on clean exit, *PanicError if the worker panicked, or the
// source failure that ended it.
func (n *Notifier) Stop() error {
	return n.slot.Stop()
}

// SyncProcessQueue appends every queued envelope to *dst in production order
// and empties the queue. No-op when nothing is queued.
func (n *Notifier) SyncProcessQueue(dst *[]Envelope) {
	n.slot.Drain(dst)
}

// Stats returns an operational snapshot (non-blocking).
func (n *Notifier) Stats() Stats {
	return n.slot.Stats()
}
