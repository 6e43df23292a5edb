package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv             string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	TelegramToken      string        `env:"TELEGRAM_TOKEN"`
	TelegramDebug      bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
	RedisAddr          string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	FetchCacheTTL      time.Duration `env:"FETCH_CACHE_TTL" envDefault:"0s"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	RetryDelay         time.Duration `env:"RETRY_DELAY" envDefault:"500ms"`
}

// Load reads .env (outside production) and then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.FetchCacheTTL < 0 {
		return nil, fmt.Errorf("FETCH_CACHE_TTL must not be negative, got %s", cfg.FetchCacheTTL)
	}

	return &cfg, nil
}

// RequireTelegram checks the settings only the bot front end needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required to run the bot")
	}
	return nil
}
