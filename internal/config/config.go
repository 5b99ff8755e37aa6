package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting the API reads from the environment.
// Values are read once in main and passed down; nothing re-reads env at runtime.
type Config struct {
	Port        string
	GinMode     string
	DatabaseDSN string

	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ClockSkew  time.Duration // leeway applied when validating exp/iat; 0 = exact comparison

	MinPasswordLength int

	CORSOrigins []string
}

// Load builds a Config from environment variables, applying development defaults.
func Load() Config {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		JWTSecret:         []byte(jwtSecret()),
		AccessTTL:         getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		RefreshTTL:        getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		ClockSkew:         getDuration("JWT_CLOCK_SKEW", 0),
		MinPasswordLength: getInt("MIN_PASSWORD_LENGTH", 6),
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	dbSslMode := getEnv("DB_SSLMODE", "disable")
	cfg.DatabaseDSN = "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	origin := getEnv("CORS_ORIGIN", "http://localhost:5500")
	cfg.CORSOrigins = []string{origin, "http://127.0.0.1:5500"}

	return cfg
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only, DO NOT use in production
	}
	return secret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
