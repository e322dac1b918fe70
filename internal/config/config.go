package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Jira connection configuration
	Jira JiraConfig

	// Dashboard authentication configuration
	Auth AuthConfig

	// Databricks export configuration
	Export ExportConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// JiraConfig holds the Jira Cloud connection parameters
type JiraConfig struct {
	BaseURL          string
	Email            string
	APIToken         string
	ProjectPrefix    string
	StoryPointsField string
	PageSize         int
	RequestTimeout   time.Duration
}

// AuthConfig holds dashboard authentication configuration
type AuthConfig struct {
	AccessKey      string
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// ExportConfig holds the Databricks export destination configuration
type ExportConfig struct {
	Enabled bool
	Host    string
	Token   string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	AuthRPS           float64 // Stricter limit for auth endpoints
	AuthBurst         int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("ALLOWED_ORIGINS", []string{}),
		},
		Jira: JiraConfig{
			BaseURL:          strings.TrimRight(os.Getenv("JIRA_URL"), "/"),
			Email:            os.Getenv("JIRA_EMAIL"),
			APIToken:         os.Getenv("JIRA_API_TOKEN"),
			ProjectPrefix:    getEnvOrDefault("JIRA_PROJECT_PREFIX", ""),
			StoryPointsField: getEnvOrDefault("JIRA_STORY_POINTS_FIELD", "customfield_10016"),
			PageSize:         getIntOrDefault("JIRA_PAGE_SIZE", 100),
			RequestTimeout:   getDurationOrDefault("JIRA_REQUEST_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			AccessKey:      os.Getenv("DASHBOARD_ACCESS_KEY"),
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 8*time.Hour),
		},
		Export: ExportConfig{
			Enabled: getBoolOrDefault("DATABRICKS_ENABLED", false),
			Host:    os.Getenv("DATABRICKS_HOST"),
			Token:   os.Getenv("DATABRICKS_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			AuthRPS:           getFloatOrDefault("RATE_LIMIT_AUTH_RPS", 1),
			AuthBurst:         getIntOrDefault("RATE_LIMIT_AUTH_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "jira-analytics"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Jira.BaseURL == "" {
		errs = append(errs, "JIRA_URL is required")
	} else if !strings.HasPrefix(c.Jira.BaseURL, "http://") && !strings.HasPrefix(c.Jira.BaseURL, "https://") {
		errs = append(errs, "JIRA_URL must start with http:// or https://")
	}

	if c.Jira.Email == "" {
		errs = append(errs, "JIRA_EMAIL is required")
	}

	if c.Jira.APIToken == "" {
		errs = append(errs, "JIRA_API_TOKEN is required")
	}

	if c.Auth.AccessKey == "" {
		errs = append(errs, "DASHBOARD_ACCESS_KEY is required")
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}
	}

	// Logical validations
	if c.Jira.PageSize < 1 || c.Jira.PageSize > 1000 {
		errs = append(errs, "JIRA_PAGE_SIZE must be between 1 and 1000")
	}

	if c.Export.Enabled {
		if c.Export.Host == "" {
			errs = append(errs, "DATABRICKS_HOST is required when DATABRICKS_ENABLED is true")
		}
		if c.Export.Token == "" {
			errs = append(errs, "DATABRICKS_TOKEN is required when DATABRICKS_ENABLED is true")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Jira: %s, Auth: [REDACTED], Export: %v, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.Jira.BaseURL,
		c.Export.Enabled,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}
