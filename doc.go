// Package notifier is a background event notifier meant to be embedded in a
// host application.
//
// # Philosophy
//
// "One worker, one stream, host decides when."
//
// A single worker produces timestamped, colored text events. The host picks
// how it receives them when it starts the worker:
//
//   - Push: every event is handed to a callback on the worker goroutine
//   - Pull: events accumulate in a queue the host drains on its own schedule
//
// # Architecture
//
//	Source (synthetic | chat) → Worker → Push callback
//	                                   ↘ Queue → SyncProcessQueue (host)
//
// A Notifier owns one worker slot. Start on an occupied slot is refused; Stop
// joins the worker and empties the slot.
//
// # Basic Usage
//
// Push:
//
//	n, err := notifier.New(notifier.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n.StartPush(ctx, func(env notifier.Envelope) {
//	    fmt.Println(env.Color, env.Text)  // Runs on the worker goroutine
//	})
//	defer n.Stop()
//
// Pull:
//
//	n.StartPull(ctx)
//	defer n.Stop()
//
//	var batch []notifier.Envelope
//	for range ticker.C {
//	    batch = batch[:0]
//	    n.SyncProcessQueue(&batch)
//	    render(batch)
//	}
//
// # Cancellation
//
// Stop is cooperative. The worker checks its flag between produced lines,
// never inside a blocking receive, so a chat worker waiting on a quiet
// channel stops only after the next line or the end of the connection.
//
// # Monitoring
//
//	stats := n.Stats()
//	if stats.QueueDepth > 10000 {
//	    slog.Warn("host drains too slowly", "depth", stats.QueueDepth)
//	}
//
// Set Config.Metrics to export Prometheus counters (notifier_* namespace).
//
// # C hosts
//
// cmd/libnotifier builds the same notifier as a C shared library
// (go build -buildmode=c-shared).
package notifier
