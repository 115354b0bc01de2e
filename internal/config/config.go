package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the operational knobs of the attendance engine.
// Both values are bounded: invalid or out-of-range input silently falls back
// to the default so a misconfigured environment can never make the grace
// window negative or open-ended.
type AttendanceConfig struct {
	CheckoutGraceHours   int // [1,48], default 24
	AdjustRequestMaxDays int // [1,30], default 7
}

const (
	DefaultCheckoutGraceHours   = 24
	MaxCheckoutGraceHours       = 48
	DefaultAdjustRequestMaxDays = 7
	MaxAdjustRequestMaxDays     = 30
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-tracking"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Attendance = AttendanceConfig{
		CheckoutGraceHours:   boundedEnvInt("CHECKOUT_GRACE_HOURS", DefaultCheckoutGraceHours, 1, MaxCheckoutGraceHours),
		AdjustRequestMaxDays: boundedEnvInt("ADJUST_REQUEST_MAX_DAYS", DefaultAdjustRequestMaxDays, 1, MaxAdjustRequestMaxDays),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GraceWindow is the maximum age an open session may reach and still be
// closed by a normal checkout.
func (c *AttendanceConfig) GraceWindow() time.Duration {
	return time.Duration(c.CheckoutGraceHours) * time.Hour
}

// GraceWindowMillis is the grace window expressed in milliseconds.
func (c *AttendanceConfig) GraceWindowMillis() int64 {
	return int64(c.CheckoutGraceHours) * 3600 * 1000
}

// AdjustRequestWindow is the maximum lookback of a backdated adjustment request.
func (c *AttendanceConfig) AdjustRequestWindow() time.Duration {
	return time.Duration(c.AdjustRequestMaxDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// boundedEnvInt reads an integer knob and clamps bad input to the fallback.
// Non-numeric, fractional, zero, negative and above-max values all fall back
// silently: these are operator knobs, not user input, and startup must not
// fail on them.
func boundedEnvInt(key string, fallback, min, max int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if v < min || v > max {
		return fallback
	}
	return v
}
