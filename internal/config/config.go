package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	TelegramToken string
	DBPath        string
	ServerPort    string
	LogLevel      string
	LeaguesPath   string
	NewsInterval  time.Duration
}

func Load() (*Config, error) {
	// a .env file is optional, environment variables win either way
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		DBPath:        getEnv("DB_PATH", "esports.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LeaguesPath:   getEnv("LEAGUES_PATH", ""),
		NewsInterval:  10 * time.Minute,
	}

	if interval := getEnv("NEWS_POLL_INTERVAL", ""); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid NEWS_POLL_INTERVAL: %w", err)
		}
		cfg.NewsInterval = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
