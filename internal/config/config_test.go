package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifier "github.com/e7canasta/notifier-bridge"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	nc := cfg.Notifier()
	assert.Equal(t, notifier.SourceSynthetic, nc.Source)
	assert.Equal(t, 65536, nc.Synthetic.Count)
	assert.Equal(t, time.Millisecond, nc.Synthetic.Interval)
	assert.Equal(t, 100*time.Millisecond, cfg.DrainInterval())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
mode: pull
source: chat
log:
  level: debug
  format: json
chat:
  channel: "#SomeChannel"
pull:
  drain_interval_ms: 250
metrics:
  addr: ":9108"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pull", cfg.Mode)
	assert.Equal(t, "chat", cfg.Source)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9108", cfg.Metrics.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.DrainInterval())

	// Keys absent from the file keep their defaults
	assert.Equal(t, 65536, cfg.Synthetic.Count)
	assert.Equal(t, "wss://irc-ws.chat.twitch.tv:443", cfg.Chat.URL)

	nc := cfg.Notifier()
	assert.Equal(t, notifier.SourceChat, nc.Source)
	assert.Equal(t, "#SomeChannel", nc.Chat.Channel)
	assert.Equal(t, 10*time.Second, nc.Chat.HandshakeTimeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "mode: [push"))
		assert.ErrorContains(t, err, "failed to parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "mode: broadcast\n"))
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "broadcast" }, "mode must be push or pull"},
		{"unknown source", func(c *Config) { c.Source = "rss" }, "source must be synthetic or chat"},
		{"negative count", func(c *Config) { c.Synthetic.Count = -1 }, "synthetic.count"},
		{"negative interval", func(c *Config) { c.Synthetic.IntervalMs = -5 }, "synthetic.interval_ms"},
		{"chat without channel", func(c *Config) { c.Source = "chat" }, "chat.channel is required"},
		{"token without nick", func(c *Config) {
			c.Source = "chat"
			c.Chat.Channel = "foo"
			c.Chat.Token = "secret"
		}, "chat.nick is required"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, Validate(cfg), tt.wantErr)
		})
	}

	t.Run("normalizes and fills defaults", func(t *testing.T) {
		cfg := Default()
		cfg.Mode = "PULL"
		cfg.Log.Format = ""
		cfg.Pull.DrainIntervalMs = 0

		require.NoError(t, Validate(cfg))
		assert.Equal(t, "pull", cfg.Mode)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, 100, cfg.Pull.DrainIntervalMs)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestOverride(t *testing.T) {
	t.Run("environment over file", func(t *testing.T) {
		t.Setenv("NOTIFIER_SOURCE", "chat")
		t.Setenv("NOTIFIER_CHAT_CHANNEL", "envchannel")
		t.Setenv("NOTIFIER_CHAT_NICK", "bot")
		t.Setenv("NOTIFIER_CHAT_TOKEN", "abc123")

		cfg := Default()
		require.NoError(t, Override(cfg, NewViper()))

		assert.Equal(t, "chat", cfg.Source)
		assert.Equal(t, "envchannel", cfg.Chat.Channel)
		assert.Equal(t, "abc123", cfg.Chat.Token)
	})

	t.Run("explicit set wins", func(t *testing.T) {
		t.Setenv("NOTIFIER_MODE", "push")

		v := NewViper()
		v.Set(KeyMode, "pull")
		v.Set(KeySyntheticCount, 12)

		cfg := Default()
		require.NoError(t, Override(cfg, v))

		assert.Equal(t, "pull", cfg.Mode)
		assert.Equal(t, 12, cfg.Synthetic.Count)
	})

	t.Run("unset keys keep file values", func(t *testing.T) {
		cfg := Default()
		cfg.Synthetic.Count = 7

		require.NoError(t, Override(cfg, NewViper()))
		assert.Equal(t, 7, cfg.Synthetic.Count)
	})

	t.Run("invalid override rejected", func(t *testing.T) {
		v := NewViper()
		v.Set(KeyLogFormat, "xml")

		assert.Error(t, Override(Default(), v))
	})
}
