package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	notifier "github.com/e7canasta/notifier-bridge"
	"github.com/e7canasta/notifier-bridge/internal/config"
)

// plain disables ANSI colors on printed events.
var plain bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "print events without ANSI colors")
}

// openNotifier builds the notifier described by cfg and starts the metrics
// endpoint if one is configured.
func openNotifier(cfg *config.Config) (*notifier.Notifier, *metricsServer, error) {
	nc := cfg.Notifier()

	ms := newMetricsServer(cfg.Metrics.Addr)
	if ms != nil {
		nc.Metrics = ms.registry
	}

	n, err := notifier.New(nc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	ms.start()

	slog.Info("notifierctl: notifier ready",
		"mode", cfg.Mode,
		"source", cfg.Source,
		"protocol", notifier.Version(),
	)

	return n, ms, nil
}

// waitFinished blocks until ctx is done or the worker has exited on its own,
// calling onTick every interval.
func waitFinished(ctx context.Context, n *notifier.Notifier, interval time.Duration, onTick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("notifierctl: shutdown signal received, stopping")
			return
		case <-ticker.C:
			finished := n.Stats().Finished
			if onTick != nil {
				onTick()
			}
			if finished {
				return
			}
		}
	}
}

// printEnvelope writes one event line, colored with the envelope color.
func printEnvelope(w io.Writer, env notifier.Envelope) {
	if plain {
		fmt.Fprintf(w, "%s %s\n", env.Color, env.Text)
		return
	}
	fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm%s\x1b[0m\n", env.Color.R, env.Color.G, env.Color.B, env.Text)
}
