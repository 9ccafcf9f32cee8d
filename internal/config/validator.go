package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	cfg.Mode = strings.ToLower(cfg.Mode)
	if cfg.Mode != "push" && cfg.Mode != "pull" {
		return fmt.Errorf("mode must be push or pull, got %q", cfg.Mode)
	}

	cfg.Source = strings.ToLower(cfg.Source)
	switch cfg.Source {
	case "synthetic":
		if cfg.Synthetic.Count < 0 {
			return fmt.Errorf("synthetic.count must be >= 0")
		}
		if cfg.Synthetic.IntervalMs < 0 {
			return fmt.Errorf("synthetic.interval_ms must be >= 0")
		}
	case "chat":
		if cfg.Chat.Channel == "" {
			return fmt.Errorf("chat.channel is required")
		}
		if cfg.Chat.Token != "" && cfg.Chat.Nick == "" {
			return fmt.Errorf("chat.nick is required when a token is set")
		}
	default:
		return fmt.Errorf("source must be synthetic or chat, got %q", cfg.Source)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text" // default
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	if cfg.Pull.DrainIntervalMs <= 0 {
		cfg.Pull.DrainIntervalMs = 100 // default
	}

	return nil
}

// ParseLevel maps a log.level value onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}
