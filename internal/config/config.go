// Package config loads the quizform application config file.
package config

import (
	"os"
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultPolicy                = "progressive"
	DefaultAddr                  = "127.0.0.1:8080"
	DefaultCloseDelayMS          = 200
	DefaultSessionTTLMinutes     = 60
	DefaultBotTokenEnv           = "QUIZFORM_BOT_TOKEN"
	DefaultInitDataMaxAgeMinutes = 24 * 60
	DefaultConfigFileName        = "quizform.yml"
)

// Config describes the quizform YAML configuration.
type Config struct {
	Questions string         `yaml:"questions"`
	Policy    string         `yaml:"policy"`
	Server    ServerConfig   `yaml:"server"`
	Archive   ArchiveConfig  `yaml:"archive"`
	Telegram  TelegramConfig `yaml:"telegram"`
}

// ServerConfig configures the mini-app HTTP server.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	CloseDelayMS      int    `yaml:"close_delay_ms"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
}

// ArchiveConfig points at the DuckDB submission archive. An empty path
// disables archiving.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// TelegramConfig controls initData verification.
type TelegramConfig struct {
	BotTokenEnv           string `yaml:"bot_token_env"`
	InitDataMaxAgeMinutes int    `yaml:"init_data_max_age_minutes"`
}

// CloseDelay returns the configured delay before the host view closes.
func (c Config) CloseDelay() time.Duration {
	return time.Duration(c.Server.CloseDelayMS) * time.Millisecond
}

// SessionTTL returns how long an idle web session is kept.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLMinutes) * time.Minute
}

// InitDataMaxAge returns the oldest accepted initData auth_date.
func (c Config) InitDataMaxAge() time.Duration {
	return time.Duration(c.Telegram.InitDataMaxAgeMinutes) * time.Minute
}

// BotToken reads the bot token from the configured environment variable.
func (c Config) BotToken() string {
	name := strings.TrimSpace(c.Telegram.BotTokenEnv)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

// Default returns a config with every default applied.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// Normalize trims values and fills in defaults for zero fields.
func Normalize(cfg *Config) {
	cfg.Questions = strings.TrimSpace(cfg.Questions)
	cfg.Policy = strings.ToLower(strings.TrimSpace(cfg.Policy))
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	cfg.Archive.Path = strings.TrimSpace(cfg.Archive.Path)
	cfg.Telegram.BotTokenEnv = strings.TrimSpace(cfg.Telegram.BotTokenEnv)

	if cfg.Policy == "" {
		cfg.Policy = DefaultPolicy
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.CloseDelayMS == 0 {
		cfg.Server.CloseDelayMS = DefaultCloseDelayMS
	}
	if cfg.Server.SessionTTLMinutes == 0 {
		cfg.Server.SessionTTLMinutes = DefaultSessionTTLMinutes
	}
	if cfg.Telegram.BotTokenEnv == "" {
		cfg.Telegram.BotTokenEnv = DefaultBotTokenEnv
	}
	if cfg.Telegram.InitDataMaxAgeMinutes == 0 {
		cfg.Telegram.InitDataMaxAgeMinutes = DefaultInitDataMaxAgeMinutes
	}
}
