package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// CatalogPath points at the daily quest catalog JSON, loaded once at startup.
	CatalogPath string

	// CloudStorageDir holds the system config files served to clients.
	CloudStorageDir string
	// SettingsDir holds per-account uploaded settings blobs.
	SettingsDir string

	// StatUpdateOnNoOp forces the quest_manager stat refresh even when a
	// login grants no quests. Default keeps the refresh tied to the grant.
	StatUpdateOnNoOp bool

	// CommitTimeout bounds the post-response persistence write.
	CommitTimeout time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "polaris"),
		CatalogPath:     getEnv("CATALOG_PATH", "configs/daily_quests.json"),
		CloudStorageDir: getEnv("CLOUDSTORAGE_DIR", "resources/cloudstorage"),
		SettingsDir:     getEnv("SETTINGS_DIR", "data/clientsettings"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	statOnNoOp, err := strconv.ParseBool(getEnv("STAT_UPDATE_ON_NOOP", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid STAT_UPDATE_ON_NOOP value: %w", err)
	}
	cfg.StatUpdateOnNoOp = statOnNoOp

	commitSecs, err := strconv.Atoi(getEnv("COMMIT_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMIT_TIMEOUT_SECONDS value: %w", err)
	}
	if commitSecs <= 0 {
		return nil, fmt.Errorf("COMMIT_TIMEOUT_SECONDS must be positive")
	}
	cfg.CommitTimeout = time.Duration(commitSecs) * time.Second

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
