package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides (NOTIFIER_CHAT_TOKEN, …).
const EnvPrefix = "NOTIFIER"

// Keys understood by Override. Dots map to underscores in environment names.
const (
	KeyMode            = "mode"
	KeySource          = "source"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeySyntheticCount  = "synthetic.count"
	KeySyntheticPacing = "synthetic.interval_ms"
	KeyChatURL         = "chat.url"
	KeyChatChannel     = "chat.channel"
	KeyChatNick        = "chat.nick"
	KeyChatToken       = "chat.token"
	KeyDrainInterval   = "pull.drain_interval_ms"
	KeyMetricsAddr     = "metrics.addr"
)

// NewViper returns a viper instance reading NOTIFIER_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Override applies every key set in v (bound flag changed, environment
// variable present, or explicit Set) on top of cfg, then re-validates.
//
// Precedence: flags > environment > config file > defaults.
func Override(cfg *Config, v *viper.Viper) error {
	setString(v, KeyMode, &cfg.Mode)
	setString(v, KeySource, &cfg.Source)
	setString(v, KeyLogLevel, &cfg.Log.Level)
	setString(v, KeyLogFormat, &cfg.Log.Format)
	setInt(v, KeySyntheticCount, &cfg.Synthetic.Count)
	setInt(v, KeySyntheticPacing, &cfg.Synthetic.IntervalMs)
	setString(v, KeyChatURL, &cfg.Chat.URL)
	setString(v, KeyChatChannel, &cfg.Chat.Channel)
	setString(v, KeyChatNick, &cfg.Chat.Nick)
	setString(v, KeyChatToken, &cfg.Chat.Token)
	setInt(v, KeyDrainInterval, &cfg.Pull.DrainIntervalMs)
	setString(v, KeyMetricsAddr, &cfg.Metrics.Addr)

	return Validate(cfg)
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}
