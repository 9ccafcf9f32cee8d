package cmd

import (
	"log/slog"
	"os"

	"github.com/e7canasta/notifier-bridge/internal/config"
)

// configureLogging installs the process-wide slog handler. Logs go to
// stderr so stdout carries only events.
func configureLogging(lc config.LogConfig) error {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
