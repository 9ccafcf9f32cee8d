package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/e7canasta/notifier-bridge/internal/envelope"
)

const (
	// DefaultSyntheticCount is the number of counter lines per run.
	DefaultSyntheticCount = 65536

	// DefaultSyntheticInterval paces counter lines so the stream is observable.
	DefaultSyntheticInterval = time.Millisecond
)

// SyntheticConfig configures the counting generator.
type SyntheticConfig struct {
	// Count is the number of counter lines ("#0" … "#Count-1")
	Count int
	// Interval is the pause after each counter line (0 disables pacing)
	Interval time.Duration
}

// DefaultSyntheticConfig returns the production defaults.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Count:    DefaultSyntheticCount,
		Interval: DefaultSyntheticInterval,
	}
}

// Synthetic emits a startup line followed by a bounded counter sequence.
type Synthetic struct {
	cfg SyntheticConfig
}

// NewSynthetic validates cfg and returns a generator.
func NewSynthetic(cfg SyntheticConfig) (*Synthetic, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("source: invalid synthetic count %d (must be >= 0)", cfg.Count)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("source: invalid synthetic interval %v (must be >= 0)", cfg.Interval)
	}
	return &Synthetic{cfg: cfg}, nil
}

// Name implements Source.
func (s *Synthetic) Name() string { return "synthetic" }

// Run implements Source.
//
// Cancellation is checked between lines (Emit and ctx), so a stop request
// takes effect within one Interval.
func (s *Synthetic) Run(ctx context.Context, emit Emitter) error {
	if err := emit.Emit(envelope.StartupText(), envelope.ColorStartup); err != nil {
		return err
	}

	var timer *time.Timer
	if s.cfg.Interval > 0 {
		timer = time.NewTimer(s.cfg.Interval)
		timer.Stop()
		defer timer.Stop()
	}

	for i := 0; i < s.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := emit.Emit(fmt.Sprintf("#%d", i), envelope.ColorCounter); err != nil {
			return err
		}

		if timer == nil {
			continue
		}

		timer.Reset(s.cfg.Interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	slog.Debug("notifier: synthetic source exhausted", "count", s.cfg.Count)

	return nil
}
