package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends selectable via STORAGE_TYPE
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// Table setup
	DeckCount     int
	AIPlayerCount int
	StartingChips int64

	// Round archive
	StorageType      string
	DataDir          string
	ElasticsearchURL string

	// Logging
	LogLevel string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	deckCount, err := getEnvInt("DECK_COUNT", 6)
	if err != nil {
		return nil, err
	}
	aiCount, err := getEnvInt("AI_PLAYERS", 2)
	if err != nil {
		return nil, err
	}
	startingChips, err := getEnvInt("STARTING_CHIPS", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DeckCount:        deckCount,
		AIPlayerCount:    aiCount,
		StartingChips:    int64(startingChips),
		StorageType:      getEnvWithDefault("STORAGE_TYPE", StorageMemory),
		DataDir:          getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		ElasticsearchURL: getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "INFO"),
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite, StorageElasticsearch:
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of %s, %s, %s", StorageMemory, StorageSQLite, StorageElasticsearch)
	}
	if c.StartingChips <= 0 {
		return fmt.Errorf("STARTING_CHIPS must be positive")
	}
	if c.AIPlayerCount < 0 {
		return fmt.Errorf("AI_PLAYERS cannot be negative")
	}
	return nil
}

// DatabasePath returns the SQLite database location under the data directory
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "sentenza.db")
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or default if not set
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
