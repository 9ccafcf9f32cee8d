package cmd

import (
	"fmt"
	"io"
	"time"

	notifier "github.com/e7canasta/notifier-bridge"
)

// statsPollInterval is how often push mode checks whether the worker ended.
const statsPollInterval = 50 * time.Millisecond

// printFinalStats prints the notifier statistics at shutdown
func printFinalStats(w io.Writer, stats notifier.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                     Final Statistics                         ")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")

	fmt.Fprintf(w, "  Source:                %s\n", stats.Source)
	fmt.Fprintf(w, "  Envelopes Produced:    %d\n", stats.Produced)
	fmt.Fprintf(w, "  Envelopes Delivered:   %d\n", stats.Delivered)

	// Pull-mode stats (if any drain happened)
	if stats.Drains > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Drains:                %d\n", stats.Drains)
		fmt.Fprintf(w, "  Envelopes Drained:     %d (%.1f%% of produced)\n",
			stats.Drained,
			ratio(stats.Drained, stats.Produced))
		fmt.Fprintf(w, "  Batch Size:            mean=%.1f p95=%.0f max=%.0f (last %d drains)\n",
			stats.DrainBatch.Mean,
			stats.DrainBatch.P95,
			stats.DrainBatch.Max,
			stats.DrainBatch.Samples)
	}

	if stats.Discarded > 0 {
		fmt.Fprintf(w, "  Discarded on Stop:     %d\n", stats.Discarded)
	}

	if stats.LastError != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Worker Error:          %s\n", stats.LastError)
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
}

// ratio calculates part as a percentage of total
func ratio(part, total uint64) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}
