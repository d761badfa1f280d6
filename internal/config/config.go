package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const minSecretLength = 16

// Config holds all application configuration
type Config struct {
	// Session
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Catalogs, each optional
	GoogleBooksAPIKey string
	TMDBAPIKey        string
	TMDBAccessToken   string
	RAWGAPIKey        string
	UpstreamTimeout   time.Duration

	// Server
	ServerPort     string
	MetricsEnabled bool
	TracingEnabled bool

	// Paths
	ConfigDir    string
	DatabaseFile string // $CONFIG_DIR/gomeshelf.db
	LockFile     string // $CONFIG_DIR/gomeshelf.lock

	// Logging
	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	// Set defaults
	v.SetDefault("SESSION_TTL_HOURS", 168)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gomeshelf")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	databaseFile := v.GetString("DATABASE_FILE")
	if databaseFile == "" {
		databaseFile = filepath.Join(configDir, "gomeshelf.db")
	}

	config := &Config{
		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionTTL:    time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		CookieSecure:  v.GetBool("COOKIE_SECURE"),

		GoogleBooksAPIKey: v.GetString("GOOGLE_BOOKS_API_KEY"),
		TMDBAPIKey:        v.GetString("TMDB_API_KEY"),
		TMDBAccessToken:   v.GetString("TMDB_ACCESS_TOKEN"),
		RAWGAPIKey:        v.GetString("RAWG_API_KEY"),
		UpstreamTimeout:   time.Duration(v.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,

		ServerPort:     v.GetString("SERVER_PORT"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		TracingEnabled: v.GetBool("TRACING_ENABLED"),

		ConfigDir:    configDir,
		DatabaseFile: databaseFile,
		LockFile:     filepath.Join(configDir, "gomeshelf.lock"),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	// Validate required fields
	if config.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if len(config.SessionSecret) < minSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength)
	}
	if config.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if config.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}
	if config.LogFormat != "text" && config.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", config.LogFormat)
	}

	return config, nil
}
