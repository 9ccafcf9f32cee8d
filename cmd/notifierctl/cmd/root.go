// Package cmd holds the notifierctl cobra commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/e7canasta/notifier-bridge/internal/config"
)

var (
	configFile string

	// Version is set by main.
	Version = "dev"

	// v carries bound flags and NOTIFIER_* environment overrides.
	v = config.NewViper()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "notifierctl",
	Short: "Run a background event notifier",
	Long: `notifierctl hosts a notifier worker in the foreground.

The worker produces colored text events from a synthetic counter or a live
chat channel. "push" prints every event as the worker delivers it; "pull"
drains the queue periodically, the way a frame-driven host would.

Configuration is read from --config (YAML), then NOTIFIER_* environment
variables (a .env file in the working directory is loaded first), then flags.`,
	SilenceUsage: true,
}

// Execute runs the root command with SIGINT/SIGTERM cancellation.
func Execute(version string) {
	Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (YAML)")
	pf.String("source", "", "event source: synthetic or chat")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9108)")
	pf.Int("count", 0, "synthetic: number of counter lines")
	pf.Int("interval-ms", 0, "synthetic: pause after each line in ms (0 disables pacing)")
	pf.String("channel", "", "chat: channel to join")
	pf.String("nick", "", "chat: login nick (anonymous if empty)")
	pf.String("url", "", "chat: WebSocket endpoint")

	mustBind(config.KeySource, "source")
	mustBind(config.KeyLogLevel, "log-level")
	mustBind(config.KeyLogFormat, "log-format")
	mustBind(config.KeyMetricsAddr, "metrics-addr")
	mustBind(config.KeySyntheticCount, "count")
	mustBind(config.KeySyntheticPacing, "interval-ms")
	mustBind(config.KeyChatChannel, "channel")
	mustBind(config.KeyChatNick, "nick")
	mustBind(config.KeyChatURL, "url")

	rootCmd.AddCommand(versionCmd, pushCmd, pullCmd)
}

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("Failed to bind %s flag: %v", flag, err))
	}
}

// loadConfig resolves the effective configuration for a run command and
// installs the logger it describes.
func loadConfig(mode string) (*config.Config, error) {
	loadEnvFiles()

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// The subcommand decides the mode; file and environment cannot
	v.Set(config.KeyMode, mode)

	if err := config.Override(cfg, v); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := configureLogging(cfg.Log); err != nil {
		return nil, err
	}

	slog.Debug("notifierctl: configuration resolved",
		"mode", cfg.Mode,
		"source", cfg.Source,
		"config_file", configFile,
	)

	return cfg, nil
}

// loadEnvFiles loads .env.local and .env; missing files are ignored.
//
// godotenv.Load never overrides a variable already set, so the real
// environment wins over .env.local, which wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		if err := godotenv.Load(envFile); err == nil {
			slog.Debug("notifierctl: loaded env file", "file", envFile)
		}
	}
}
