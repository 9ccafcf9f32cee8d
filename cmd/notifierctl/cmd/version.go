package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	notifier "github.com/e7canasta/notifier-bridge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print notifierctl and protocol versions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "notifierctl %s (protocol v%d)\n", Version, notifier.Version())
	},
}
