package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	notifier "github.com/e7canasta/notifier-bridge"
	"github.com/e7canasta/notifier-bridge/internal/config"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Drain queued events periodically",
	Long: `pull starts the worker in pull mode and drains the queue every
pull.drain_interval_ms, printing each batch in production order. Runs until
the source ends or SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().Int("drain-interval-ms", 0, "queue drain period in ms")
	if err := v.BindPFlag(config.KeyDrainInterval, pullCmd.Flags().Lookup("drain-interval-ms")); err != nil {
		panic(err)
	}
}

func runPull(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig("pull")
	if err != nil {
		return err
	}

	n, ms, err := openNotifier(cfg)
	if err != nil {
		return err
	}
	defer ms.shutdown()

	n.StartPull(cmd.Context())

	out := cmd.OutOrStdout()
	var batch []notifier.Envelope

	drain := func() {
		batch = batch[:0]
		n.SyncProcessQueue(&batch)
		for _, env := range batch {
			printEnvelope(out, env)
		}
		if len(batch) > 0 {
			slog.Debug("notifierctl: drained batch", "size", len(batch))
		}
	}

	waitFinished(cmd.Context(), n, cfg.DrainInterval(), drain)

	// Anything produced after the last tick and before the worker noticed
	// the stop is discarded by Stop
	drain()

	stopErr := n.Stop()
	printFinalStats(cmd.ErrOrStderr(), n.Stats())

	return stopErr
}
