package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	notifier "github.com/e7canasta/notifier-bridge"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Print every event as the worker delivers it",
	Long: `push starts the worker in push mode: each event is printed from the
worker goroutine the moment it is produced. Runs until the source ends or
SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func runPush(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig("push")
	if err != nil {
		return err
	}

	n, ms, err := openNotifier(cfg)
	if err != nil {
		return err
	}
	defer ms.shutdown()

	out := cmd.OutOrStdout()
	if !n.StartPush(cmd.Context(), func(env notifier.Envelope) {
		printEnvelope(out, env)
	}) {
		return errors.New("notifier already running")
	}

	waitFinished(cmd.Context(), n, statsPollInterval, nil)

	stopErr := n.Stop()
	printFinalStats(cmd.ErrOrStderr(), n.Stats())

	return stopErr
}
