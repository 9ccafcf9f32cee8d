// Package config loads the notifierctl configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	notifier "github.com/e7canasta/notifier-bridge"
	"github.com/e7canasta/notifier-bridge/internal/source"
	"github.com/e7canasta/notifier-bridge/internal/source/chat"
)

// Config represents the complete notifierctl configuration
type Config struct {
	Mode      string          `yaml:"mode"`   // push, pull
	Source    string          `yaml:"source"` // synthetic, chat
	Log       LogConfig       `yaml:"log"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
	Chat      ChatConfig      `yaml:"chat"`
	Pull      PullConfig      `yaml:"pull"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SyntheticConfig contains counting source settings
type SyntheticConfig struct {
	Count      int `yaml:"count"`       // counter lines per run
	IntervalMs int `yaml:"interval_ms"` // pause after each line (0 disables pacing)
}

// ChatConfig contains chat source settings
type ChatConfig struct {
	URL               string `yaml:"url"`
	Channel           string `yaml:"channel"`
	Nick              string `yaml:"nick"`  // anonymous login if empty
	Token             string `yaml:"token"` // usually from NOTIFIER_CHAT_TOKEN, not the file
	HandshakeTimeoutS int    `yaml:"handshake_timeout_s"`
}

// PullConfig contains pull-mode host settings
type PullConfig struct {
	DrainIntervalMs int `yaml:"drain_interval_ms"` // how often the host drains the queue
}

// MetricsConfig contains Prometheus exporter settings
type MetricsConfig struct {
	Addr string `yaml:"addr"` // listen address for /metrics, empty disables
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mode:   "push",
		Source: string(notifier.SourceSynthetic),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Synthetic: SyntheticConfig{
			Count:      source.DefaultSyntheticCount,
			IntervalMs: int(source.DefaultSyntheticInterval / time.Millisecond),
		},
		Chat: ChatConfig{
			URL:               chat.DefaultURL,
			HandshakeTimeoutS: 10,
		},
		Pull: PullConfig{
			DrainIntervalMs: 100,
		},
	}
}

// Load reads and parses a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DrainInterval returns the pull-mode drain period.
func (c *Config) DrainInterval() time.Duration {
	return time.Duration(c.Pull.DrainIntervalMs) * time.Millisecond
}

// Notifier converts the file configuration into a notifier.Config.
func (c *Config) Notifier() notifier.Config {
	return notifier.Config{
		Source: notifier.SourceKind(c.Source),
		Synthetic: notifier.SyntheticConfig{
			Count:    c.Synthetic.Count,
			Interval: time.Duration(c.Synthetic.IntervalMs) * time.Millisecond,
		},
		Chat: notifier.ChatConfig{
			URL:              c.Chat.URL,
			Channel:          c.Chat.Channel,
			Nick:             c.Chat.Nick,
			Token:            c.Chat.Token,
			HandshakeTimeout: time.Duration(c.Chat.HandshakeTimeoutS) * time.Second,
		},
	}
}
