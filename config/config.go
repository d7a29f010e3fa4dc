package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func Load() (*config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return &config{
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     EnvtoInt(os.Getenv("DB_PORT")),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Market: MarketConfig{
			BaseURL: envOr("MARKET_API_URL", "https://pro-api.coinmarketcap.com"),
			APIKey:  os.Getenv("MARKET_API_KEY"),
			Convert: envOr("FIAT_CURRENCY", "EUR"),
			Timeout: time.Duration(timeoutSeconds(os.Getenv("MARKET_TIMEOUT_SECONDS"))) * time.Second,
		},
		Economy: EconomyConfig{
			DailyReward: EnvtoFloat(envOr("DAILY_REWARD", "50")),
		},
	}, nil
}

// helper env(string) to int
func EnvtoInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// helper env(string) to float
func EnvtoFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// helper for the market timeout; the oracle call must always carry a latency
// bound, so unset or unparsable values fall back to 10 seconds
func timeoutSeconds(s string) int {
	if i := EnvtoInt(s); i > 0 {
		return i
	}
	return 10
}

// helper to read an env var with a fallback
func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
