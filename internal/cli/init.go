// Package cli provides common initialization shared by the finbook binaries.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"finbook/internal/config"
	applog "finbook/internal/log"
	"finbook/internal/storage"
)

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are ignored;
// production containers set real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, exiting the process when invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the SQLite repository, exiting the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
