package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrMissingDiscordToken   = errors.New("discord token is not configured")
	ErrMissingIdentifier     = errors.New("required identifier is not configured")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Defaults applied when a value is left out of the config files.
const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultKeepAlivePort    = 8080
	DefaultTranscriptWindow = 10
)

// envOverrides maps environment variables onto config keys.
var envOverrides = map[string]string{
	"DISCORD_TOKEN":  "bot.discord.token",
	"GEMINI_API_KEY": "common.gemini.api_key",
	"GEMINI_MODEL":   "common.gemini.model",
	"KEEPALIVE_PORT": "common.keepalive.port",
}

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared by every command.
type CommonConfig struct {
	// Version of the common config.
	Version   int       `koanf:"version"`
	Debug     Debug     `koanf:"debug"`
	Gemini    Gemini    `koanf:"gemini"`
	KeepAlive KeepAlive `koanf:"keepalive"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// Gemini contains text generation configuration.
type Gemini struct {
	// API key for authentication. Empty disables generation.
	APIKey string `koanf:"api_key"`
	// Model used for every request.
	Model string `koanf:"model"`
}

// KeepAlive contains the liveness HTTP server configuration.
type KeepAlive struct {
	// Enable the HTTP server.
	Enabled bool `koanf:"enabled"`
	// Address to bind, empty for all interfaces.
	Host string `koanf:"host"`
	// Port to listen on.
	Port int `koanf:"port"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
	// Sanction role configuration.
	Roles Roles `koanf:"roles"`
	// Transcript configuration.
	Transcript Transcript `koanf:"transcript"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
	// Category whose channels are treated as tickets.
	TicketCategoryID uint64 `koanf:"ticket_category_id"`
	// Channel receiving audit records.
	AuditChannelID uint64 `koanf:"audit_channel_id"`
}

// Roles holds the role granted for each sanction level.
type Roles struct {
	Warn1     uint64 `koanf:"warn_1"`
	Warn2     uint64 `koanf:"warn_2"`
	Warn3     uint64 `koanf:"warn_3"`
	Blacklist uint64 `koanf:"blacklist"`
}

// Transcript contains ticket transcript configuration.
type Transcript struct {
	// Number of recent messages sent to the model.
	Window int `koanf:"window"`
}

// DefaultPaths returns the directories searched for config files, in order.
func DefaultPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".arbiter",
		homeDir + "/.arbiter/config",
		"/etc/arbiter/config",
		"/app/config",
		"/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the configuration from the default search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	return LoadFrom(paths)
}

// LoadFrom loads common.toml and bot.toml from the first path containing each,
// applies environment overrides and checks file versions.
func LoadFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	for _, configName := range []string{"common", "bot"} {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)

			sub := koanf.New(".")
			if err := sub.Load(file.Provider(configPath), toml.Parser()); err != nil {
				continue
			}

			if err := k.MergeAt(sub, configName); err != nil {
				return nil, "", fmt.Errorf("failed to merge %s.toml: %w", configName, err)
			}

			configLoaded = true

			if usedConfigPath == "" {
				usedConfigPath = path
			}

			break
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	// Secrets usually arrive through the environment; empty variables are ignored
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envOverrides[key], value
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	config.applyDefaults()

	return &config, usedConfigPath, nil
}

// Validate reports the first missing value the bot cannot run without.
func (c *Config) Validate() error {
	if c.Bot.Discord.Token == "" {
		return ErrMissingDiscordToken
	}

	required := []struct {
		name  string
		value uint64
	}{
		{"bot.discord.ticket_category_id", c.Bot.Discord.TicketCategoryID},
		{"bot.discord.audit_channel_id", c.Bot.Discord.AuditChannelID},
		{"bot.roles.warn_1", c.Bot.Roles.Warn1},
		{"bot.roles.warn_2", c.Bot.Roles.Warn2},
		{"bot.roles.warn_3", c.Bot.Roles.Warn3},
		{"bot.roles.blacklist", c.Bot.Roles.Blacklist},
	}

	for _, r := range required {
		if r.value == 0 {
			return fmt.Errorf("%w: %s", ErrMissingIdentifier, r.name)
		}
	}

	return nil
}

// applyDefaults fills zero values with their defaults.
func (c *Config) applyDefaults() {
	if c.Common.Gemini.Model == "" {
		c.Common.Gemini.Model = DefaultGeminiModel
	}

	if c.Common.KeepAlive.Port == 0 {
		c.Common.KeepAlive.Port = DefaultKeepAlivePort
	}

	if c.Common.Debug.LogLevel == "" {
		c.Common.Debug.LogLevel = "info"
	}

	if c.Common.Debug.MaxLogsToKeep <= 0 {
		c.Common.Debug.MaxLogsToKeep = 10
	}

	if c.Common.Debug.MaxLogLines <= 0 {
		c.Common.Debug.MaxLogLines = 10000
	}

	if c.Bot.Transcript.Window <= 0 {
		c.Bot.Transcript.Window = DefaultTranscriptWindow
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
				"Please update your config file from: https://github.com/robalyx/arbiter/tree/%s/config/%s.toml",
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
