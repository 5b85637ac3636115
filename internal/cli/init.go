// Package cli provides common initialization shared by cmd/pizzaria,
// cmd/pizzaria-api, and cmd/pizzaria-worker.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"pizzaria/internal/amqp"
	"pizzaria/internal/config"
	applog "pizzaria/internal/log"
	"pizzaria/internal/storage"
)

// SetupLogger initializes structured logging and sets the default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: component,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; production sets real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStorage opens the SQLite repository, runs migrations, and seeds
// the default categories. Exits the process on failure.
func InitStorage(ctx context.Context, logger *applog.Logger, cfg *config.Config) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	created, err := repo.SeedDefaultCategories(ctx, cfg.SeedCategories())
	if err != nil {
		logger.Error("Failed to seed default categories", "error", err)
		repo.Close()
		os.Exit(1)
	}
	if created > 0 {
		logger.Info("Seeded default categories", "created", created)
	}
	return repo
}

// InitAMQP connects the event client when an AMQP URL is configured.
// Returns nil when events are disabled.
func InitAMQP(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - no AMQP_URL provided")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}
