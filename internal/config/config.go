// Package config loads the bot configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Log format values.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all bot configuration.
type Config struct {
	// Telegram
	BotToken    string        `env:"BOT_TOKEN,required" validate:"required"`
	AdminChatID int64         `env:"ADMIN_CHAT_ID,required" validate:"required,ne=0"`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// Watch loop
	CheckIntervalSeconds  int           `env:"CHECK_INTERVAL" envDefault:"3600" validate:"gt=0"`
	PriceHistoryRetention time.Duration `env:"PRICE_HISTORY_RETENTION" envDefault:"720h" validate:"gte=0"`

	// Market APIs
	PriceAPIURL    string        `env:"PRICE_API_URL" envDefault:"https://api.coingecko.com/api/v3/simple/price" validate:"required,url"`
	NewsAPIURL     string        `env:"NEWS_API_URL" envDefault:"https://cryptopanic.com/api/v1/posts/" validate:"required,url"`
	NewsAPIKey     string        `env:"NEWS_API_KEY"`
	VSCurrency     string        `env:"VS_CURRENCY" envDefault:"eur" validate:"required,alpha,lowercase"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	HTTPMaxRetries uint64        `env:"HTTP_MAX_RETRIES" envDefault:"3" validate:"lte=10"`

	// Storage
	DatabasePath string `env:"DATABASE_PATH" envDefault:"coins.db" validate:"required"`

	// Logging
	LogFile       string `env:"LOG_FILE" envDefault:"bot_usage.log"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10" validate:"gte=1,lte=100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3" validate:"gte=0,lte=10"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28" validate:"gte=0,lte=365"`

	// Broadcast throttling, messages per second.
	BroadcastRate float64 `env:"BROADCAST_RATE" envDefault:"20" validate:"gt=0,lte=30"`
}

// Storage is the part of Config the offline commands need. It has no
// required Telegram settings.
type Storage struct {
	DatabasePath string `env:"DATABASE_PATH" envDefault:"coins.db" validate:"required"`
}

// CheckInterval is the pause between two watch cycles.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// NewsEnabled reports whether a news API key is configured.
func (c *Config) NewsEnabled() bool {
	return c.NewsAPIKey != ""
}

// Validate checks field constraints after parsing.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads .env (if present), parses the environment and validates it.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Variables already present
// in the environment are not overwritten by the file.
func LoadFile(dotenv string) (*Config, error) {
	if err := loadDotenv(dotenv); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorage reads the dotenv file (if present) and parses only the
// storage settings.
func LoadStorage(dotenv string) (*Storage, error) {
	if err := loadDotenv(dotenv); err != nil {
		return nil, err
	}

	cfg := &Storage{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
