package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrTokenMissing          = errors.New("config file is missing the discord token")
	ErrPrefixMissing         = errors.New("config file has an empty command prefix")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// CurrentBotVersion is the current version of the bot config file.
const CurrentBotVersion = 1

// Config represents the entire application configuration.
type Config struct {
	Bot BotConfig `koanf:"bot"`
}

// BotConfig contains the example bot configuration.
type BotConfig struct {
	// Version of the bot config.
	Version       int           `koanf:"version"`
	Discord       Discord       `koanf:"discord"`
	Interactivity Interactivity `koanf:"interactivity"`
	RateLimit     RateLimit     `koanf:"rate_limit"`
	Redis         Redis         `koanf:"redis"`
	Debug         Debug         `koanf:"debug"`
}

// Discord contains the Discord connection settings.
type Discord struct {
	// Bot token.
	Token string `koanf:"token"`
	// Prefix of text commands.
	Prefix string `koanf:"prefix"`
}

// Interactivity contains the settings of the interactivity service.
type Interactivity struct {
	// Default request timeout in milliseconds.
	DefaultTimeout int `koanf:"default_timeout"`
	// Events buffered per waiting request.
	EventBuffer int `koanf:"event_buffer"`
	// Retries of delayed message deletions.
	Retry Retry `koanf:"retry"`
}

// DefaultTimeoutDuration returns the default timeout as a duration.
func (i Interactivity) DefaultTimeoutDuration() time.Duration {
	return time.Duration(i.DefaultTimeout) * time.Millisecond
}

// Retry contains retry configuration.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
	// Maximum total time spent retrying in milliseconds.
	MaxElapsed int `koanf:"max_elapsed"`
}

// RateLimit contains the per-user command rate limit.
type RateLimit struct {
	// Commands a user may run per second.
	CommandsPerSecond float64 `koanf:"commands_per_second"`
	// Commands a user may run in a burst.
	Burst int `koanf:"burst"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Enable the Redis page cache.
	Enabled bool `koanf:"enabled"`
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
	// Disable client side caching, needed by servers without CLIENT TRACKING.
	DisableCache bool `koanf:"disable_cache"`
	// Page cache TTL in seconds.
	PageTTL int `koanf:"page_ttl"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Record error logs as trace spans in the session directory.
	TraceErrors bool `koanf:"trace_errors"`
}

// SearchPaths returns the directories searched for config files, in order.
func SearchPaths() []string {
	paths := []string{".interactivity"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".interactivity", "config"))
	}
	return append(paths, "/etc/interactivity/config", "/app/config", "config", ".")
}

// LoadConfig loads bot.toml from configDir, or from the first search path
// holding one when configDir is empty.
// Returns the config along with the used config directory.
func LoadConfig(configDir string) (*Config, string, error) {
	k := koanf.New(".")

	configPaths := SearchPaths()
	if configDir != "" {
		configPaths = []string{configDir}
	}

	var usedConfigPath string
	for _, path := range configPaths {
		configPath := filepath.Join(path, "bot.toml")
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: bot.toml", ErrConfigFileNotFound)
	}

	config := Config{Bot: defaults()}
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	if config.Bot.Discord.Token == "" {
		return nil, "", ErrTokenMissing
	}

	// Without a prefix every message in a channel would be read as a command.
	if strings.TrimSpace(config.Bot.Discord.Prefix) == "" {
		return nil, "", ErrPrefixMissing
	}

	return &config, usedConfigPath, nil
}

// defaults returns the values used for keys missing from the config file.
func defaults() BotConfig {
	return BotConfig{
		Discord: Discord{Prefix: "!"},
		Interactivity: Interactivity{
			DefaultTimeout: 45000,
			EventBuffer:    64,
			Retry:          Retry{MaxRetries: 3, Delay: 500, MaxDelay: 5000, MaxElapsed: 30000},
		},
		RateLimit: RateLimit{CommandsPerSecond: 1, Burst: 3},
		Redis:     Redis{Host: "localhost", Port: 6379, PageTTL: 900},
		Debug:     Debug{LogLevel: "info", MaxLogsToKeep: 10, MaxLogLines: 10000},
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/interactivity/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
