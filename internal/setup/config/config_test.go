package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/arbiter/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonTOML = `
version = 1

[debug]
log_level = "debug"

[gemini]
api_key = "file-key"
`

const botTOML = `
version = 1

[discord]
token = "file-token"
ticket_category_id = 1239971597146783744
audit_channel_id = 1239621280542490726

[roles]
warn_1 = 1447160434724438056
warn_2 = 1447160478991126599
warn_3 = 1447160521286746225
blacklist = 1447160592803692677
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".toml"), []byte(content), 0o600))
}

func validConfig() *config.Config {
	return &config.Config{
		Bot: config.BotConfig{
			Discord: config.Discord{
				Token:            "token",
				TicketCategoryID: 1,
				AuditChannelID:   2,
			},
			Roles: config.Roles{Warn1: 3, Warn2: 4, Warn3: 5, Blacklist: 6},
		},
	}
}

func TestLoadFrom(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("KEEPALIVE_PORT", "")

	dir := t.TempDir()
	writeConfig(t, dir, "common", commonTOML)
	writeConfig(t, dir, "bot", botTOML)

	cfg, used, err := config.LoadFrom([]string{filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)

	assert.Equal(t, dir, used)
	assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
	assert.Equal(t, uint64(1239971597146783744), cfg.Bot.Discord.TicketCategoryID)
	assert.Equal(t, uint64(1447160592803692677), cfg.Bot.Roles.Blacklist)
	require.NoError(t, cfg.Validate())

	// Defaults fill what the files leave out
	assert.Equal(t, config.DefaultGeminiModel, cfg.Common.Gemini.Model)
	assert.Equal(t, config.DefaultKeepAlivePort, cfg.Common.KeepAlive.Port)
	assert.Equal(t, config.DefaultTranscriptWindow, cfg.Bot.Transcript.Window)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("KEEPALIVE_PORT", "9090")

	dir := t.TempDir()
	writeConfig(t, dir, "common", commonTOML)
	writeConfig(t, dir, "bot", botTOML)

	cfg, _, err := config.LoadFrom([]string{dir})
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Bot.Discord.Token)
	assert.Equal(t, "env-key", cfg.Common.Gemini.APIKey)
	assert.Equal(t, "gemini-test", cfg.Common.Gemini.Model)
	assert.Equal(t, 9090, cfg.Common.KeepAlive.Port)
}

func TestLoadFromMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "common", commonTOML)

	_, _, err := config.LoadFrom([]string{dir})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
	assert.Contains(t, err.Error(), "bot.toml")
}

func TestLoadFromVersionChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		common string
		want   error
	}{
		{"missing version", "[debug]\nlog_level = \"info\"\n", config.ErrConfigVersionMissing},
		{"old version", "version = 99\n", config.ErrConfigVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, "common", tt.common)
			writeConfig(t, dir, "bot", botTOML)

			_, _, err := config.LoadFrom([]string{dir})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
		field   string
	}{
		{"valid", func(*config.Config) {}, nil, ""},
		{"missing token", func(c *config.Config) { c.Bot.Discord.Token = "" }, config.ErrMissingDiscordToken, ""},
		{
			"missing ticket category",
			func(c *config.Config) { c.Bot.Discord.TicketCategoryID = 0 },
			config.ErrMissingIdentifier, "ticket_category_id",
		},
		{
			"missing audit channel",
			func(c *config.Config) { c.Bot.Discord.AuditChannelID = 0 },
			config.ErrMissingIdentifier, "audit_channel_id",
		},
		{
			"missing blacklist role",
			func(c *config.Config) { c.Bot.Roles.Blacklist = 0 },
			config.ErrMissingIdentifier, "bot.roles.blacklist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
