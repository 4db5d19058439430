package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "4242")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(4242), cfg.AdminChatID)
	assert.Equal(t, time.Hour, cfg.CheckInterval())
	assert.Equal(t, "eur", cfg.VSCurrency)
	assert.Equal(t, "coins.db", cfg.DatabasePath)
	assert.Equal(t, "bot_usage.log", cfg.LogFile)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.PollTimeout)
	assert.Equal(t, 720*time.Hour, cfg.PriceHistoryRetention)
	assert.Equal(t, uint64(3), cfg.HTTPMaxRetries)
	assert.False(t, cfg.NewsEnabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")
	t.Setenv("ADMIN_CHAT_ID", "")
	os.Unsetenv("ADMIN_CHAT_ID")

	_, err := LoadFile("")
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CHECK_INTERVAL", "60")
	t.Setenv("NEWS_API_KEY", "secret")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.CheckInterval())
	assert.True(t, cfg.NewsEnabled())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero interval", key: "CHECK_INTERVAL", value: "0"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "unknown log format", key: "LOG_FORMAT", value: "xml"},
		{name: "upper case currency", key: "VS_CURRENCY", value: "EUR"},
		{name: "broadcast too fast", key: "BROADCAST_RATE", value: "100"},
		{name: "bad price url", key: "PRICE_API_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFile("")
			require.Error(t, err)
		})
	}
}

func TestLoadFile_DotEnv(t *testing.T) {
	setRequired(t)
	os.Unsetenv("NEWS_API_KEY")
	t.Cleanup(func() { os.Unsetenv("NEWS_API_KEY") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEWS_API_KEY=from-file\nBOT_TOKEN=ignored\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.NewsAPIKey)
	// the environment wins over the file
	assert.Equal(t, "123:abc", cfg.BotToken)
}

func TestLoadFile_MissingDotEnvIsFine(t *testing.T) {
	setRequired(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadStorage(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_ID", "")
	t.Setenv("DATABASE_PATH", "")
	os.Unsetenv("DATABASE_PATH")

	cfg, err := LoadStorage("")
	require.NoError(t, err)
	assert.Equal(t, "coins.db", cfg.DatabasePath)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_PATH=/data/coins.db\n"), 0o600))

	cfg, err = LoadStorage(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/coins.db", cfg.DatabasePath)
}
