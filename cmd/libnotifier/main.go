// Command libnotifier builds the notifier as a C shared library:
//
//	go build -buildmode=c-shared -o libnotifier.so ./cmd/libnotifier
//
// The library owns one process-wide notifier. Its source is configured from
// NOTIFIER_* environment variables at first use (synthetic counter by
// default). See notifier.h for the C types.
//
// Ownership across the boundary:
//   - Every NotifierMessage.text is malloc'd here and owned by the host until
//     it is passed to notifier_deallocate_message, exactly once
//   - Releasing a text twice, or one this library never handed out, is
//     refused and logged instead of freed
//   - Host queues from notifier_queue_new are opaque handles released with
//     notifier_queue_free
package main

import (
	"log/slog"
	"sync"

	notifier "github.com/e7canasta/notifier-bridge"
	"github.com/e7canasta/notifier-bridge/internal/config"
	"github.com/e7canasta/notifier-bridge/internal/handoff"
)

var (
	instanceOnce sync.Once
	instance     *notifier.Notifier

	// ledger tracks every text buffer currently owned by the host.
	ledger = handoff.NewLedger()
)

func main() {}

// get returns the process-wide notifier, creating it on first use.
func get() *notifier.Notifier {
	instanceOnce.Do(func() {
		instance = newInstance()
	})
	return instance
}

func newInstance() *notifier.Notifier {
	cfg := config.Default()
	if err := config.Override(cfg, config.NewViper()); err != nil {
		slog.Error("libnotifier: invalid NOTIFIER_* environment, using defaults", "error", err)
		cfg = config.Default()
	}

	n, err := notifier.New(cfg.Notifier())
	if err != nil {
		// Validated above; a failure here is a programming error
		panic(err)
	}

	slog.Debug("libnotifier: notifier created",
		"source", cfg.Source,
		"protocol", notifier.Version(),
	)

	return n
}
