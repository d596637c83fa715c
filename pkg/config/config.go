package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Bid scoring
	Scoring ScoringConfig

	// Contractor signal source
	Directory DirectoryConfig

	// Auth
	Auth AuthConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string

	// Scheduler
	SchedulerEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ScoringConfig controls how bid rankings are produced and memoized
type ScoringConfig struct {
	ConfigPath string        // optional YAML overriding weights/defaults
	CacheTTL   time.Duration // 0 disables the recommendation cache
}

// Contractor signal sources
const (
	SourceDatabase = "db"
	SourceRemote   = "remote"
)

// DirectoryConfig selects where contractor scoring signals come from
type DirectoryConfig struct {
	Source  string // db | remote
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds password hashing and login throttling settings
type AuthConfig struct {
	BcryptCost      int
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// bcrypt.MinCost / bcrypt.MaxCost, duplicated so config stays dependency-free
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Scoring: ScoringConfig{
			ConfigPath: getEnv("SCORING_CONFIG", ""),
			CacheTTL:   getEnvAsDuration("SCORING_CACHE_TTL", "10m"),
		},

		Directory: DirectoryConfig{
			Source:  getEnv("CONTRACTOR_SOURCE", SourceDatabase),
			BaseURL: getEnv("DIRECTORY_BASE_URL", ""),
			Timeout: getEnvAsDuration("DIRECTORY_TIMEOUT", "5s"),
		},

		Auth: AuthConfig{
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 10),
			LoginRateLimit:  getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow: getEnvAsDuration("LOGIN_RATE_WINDOW", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),

		SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Directory.Source {
	case SourceDatabase:
	case SourceRemote:
		if c.Directory.BaseURL == "" {
			return fmt.Errorf("DIRECTORY_BASE_URL is required when CONTRACTOR_SOURCE=remote")
		}
	default:
		return fmt.Errorf("CONTRACTOR_SOURCE must be one of: db, remote")
	}

	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}

	if c.Auth.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}

	return nil
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
