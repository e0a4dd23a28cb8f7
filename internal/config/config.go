package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	LogLevel          string
	DBDSN             string
	DBMaxConns        int
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Scheduling defaults; shops may override buffer and step.
	BufferMinutes          int
	SlotStepMinutes        int
	AvailabilityFailClosed bool
	AvailabilityTimeout    time.Duration

	RateLimitPerMinute int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Idle minutes enforced after every appointment (default: 5)
	cfg.BufferMinutes, err = getEnvAsInt("BOOKING_BUFFER_MINUTES", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_BUFFER_MINUTES: %w", err)
	}
	if cfg.BufferMinutes < 0 {
		return nil, fmt.Errorf("BOOKING_BUFFER_MINUTES must not be negative")
	}

	// Granularity of generated slot start times (default: 15)
	cfg.SlotStepMinutes, err = getEnvAsInt("SLOT_STEP_MINUTES", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_STEP_MINUTES: %w", err)
	}
	if cfg.SlotStepMinutes <= 0 {
		return nil, fmt.Errorf("SLOT_STEP_MINUTES must be positive")
	}

	cfg.AvailabilityFailClosed, err = getEnvAsBool("AVAILABILITY_FAIL_CLOSED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_FAIL_CLOSED: %w", err)
	}

	cfg.AvailabilityTimeout, err = getEnvAsDuration("AVAILABILITY_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_TIMEOUT: %w", err)
	}

	cfg.RateLimitPerMinute, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	return val, nil
}
