package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/K1llByte/ben/config"
	"github.com/K1llByte/ben/internal/models"
	"github.com/K1llByte/ben/internal/operations/market"
	"github.com/K1llByte/ben/internal/repositories"
	"github.com/K1llByte/ben/internal/services/economy"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Setup database
	db := setupDatabase(cfg.Database, log)

	// Initialize store and oracle
	store := repositories.NewStore(db)
	oracle := market.NewQuoteFetcher(
		cfg.Market.BaseURL,
		cfg.Market.APIKey,
		cfg.Market.Convert,
		cfg.Market.Timeout,
		log,
	)

	// Initialize economy engine
	engine := economy.NewEngine(store, oracle, log)

	// One oracle round trip at startup; a bad API key shows up here.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Market.Timeout)
	quote, err := engine.Quote(ctx, "BTC")
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("Market data check failed")
	} else {
		log.Info().Float64("price", quote.Price).Msg("Market data check passed")
	}

	log.Info().
		Str("convert", cfg.Market.Convert).
		Float64("daily_reward", cfg.Economy.DailyReward).
		Msg("Economy ledger ready")

	// Handle shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info().Msg("Shutting down...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("Shutdown complete")
}

func setupDatabase(dbConfig config.DatabaseConfig, log zerolog.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto migrate database schemas
	err = db.AutoMigrate(&models.Account{}, &models.TradeEntry{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	return db
}
