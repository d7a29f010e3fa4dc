package config

import "time"

type config struct {
	Database DatabaseConfig
	Market   MarketConfig
	Economy  EconomyConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type MarketConfig struct {
	BaseURL string
	APIKey  string
	Convert string
	Timeout time.Duration
}

type EconomyConfig struct {
	DailyReward float64
}
