package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Store       StoreConfig
	Database    DatabaseConfig
	Lang        string
	LogMode     string
	Backup      BackupConfig
	RandomSeed  int64
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// BackupConfig controls scheduled backups. An empty Dir disables them.
type BackupConfig struct {
	Dir string
	At  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "data/vocabdeck.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "vocabdeck"),
			User:     getEnv("DB_USER", "vocabdeck"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Lang:    getEnv("APP_LANG", "en"),
		LogMode: getEnv("LOG_MODE", "development"),
		Backup: BackupConfig{
			Dir: os.Getenv("BACKUP_DIR"),
			At:  getEnv("BACKUP_AT", "03:00"),
		},
	}

	if seed := os.Getenv("RANDOM_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RANDOM_SEED must be an integer: %w", err)
		}
		cfg.RandomSeed = v
	}

	switch cfg.Store.Driver {
	case "sqlite", "sqlite3":
	case "postgres", "postgresql":
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// ValidateBot checks the settings only the Telegram bot needs
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.BotPassword == "" {
		return fmt.Errorf("BOT_PASSWORD is required")
	}
	return nil
}

// DSN returns the connection string for the selected store
func (c *Config) DSN() string {
	switch c.Store.Driver {
	case "postgres", "postgresql":
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.Name,
		)
	}
	return c.Store.SQLitePath
}

// NewLogger builds the zap logger for LogMode
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.LogMode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
