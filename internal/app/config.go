package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string // Environment (dev, staging, prod) (default: dev)
	Port         int    // HTTP server port (default: 5000)
	StoreDriver  string // Store driver (memory, sqlite) (default: memory)
	DatabaseFile string // Path to SQLite database file (sqlite driver only)

	JWTSecret    string // Credential signing secret; must be set in prod
	ClientOrigin string // Browser client origin allowed by CORS and used in redirects
	ServerURL    string // Public base URL of this API (for the Google callback)

	SMTPHost     string // Mail relay; all five unset selects the dev log sender
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	GoogleClientID     string // Unset disables the federation endpoints (501)
	GoogleClientSecret string

	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-challenge cleanup interval (default: 1h)
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Env:          getEnvOrDefault("ENV", "dev"),
		Port:         getEnvIntOrDefault("PORT", 5000),
		StoreDriver:  getEnvOrDefault("STORE_DRIVER", "memory"),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "cloudnotes.db"),

		JWTSecret:    getEnvOrDefault("JWT_SECRET", "dev-secret"),
		ClientOrigin: getEnvOrDefault("CLIENT_ORIGIN", "http://localhost:5173"),
		ServerURL:    getEnvOrDefault("SERVER_URL", "http://localhost:5000"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Prod reports whether the service runs with production hardening (Secure
// cookies, SameSite=None, no localhost CORS).
func (c Config) Prod() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Validate rejects configurations that would silently run production traffic
// on development fallbacks.
func (c Config) Validate() error {
	if c.StoreDriver != "memory" && c.StoreDriver != "sqlite" {
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.Prod() {
		if c.JWTSecret == "" || c.JWTSecret == "dev-secret" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.ClientOrigin == "" {
			return fmt.Errorf("CLIENT_ORIGIN must be set in production")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
