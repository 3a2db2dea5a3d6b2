package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer   string   // Issuer claim for bearer tokens (default: notes)
	Audience []string // Audience claim, comma separated in the environment (default: notes-api)

	NumKeys             int           // Active signing keys (default: 2, min: 1, max: 10)
	KeyRotationInterval time.Duration // How often housekeeping rotates a signing key; 0 disables (default: 24h)
	KeyGracePeriod      time.Duration // How long a retired key keeps verifying (default: 1h)

	DatabaseFile string        // Path to the SQLite database file (default: ./notes.db)
	PepperFile   string        // Path to the password pepper, created on first start (default: ./pepper)
	TokenTTL     time.Duration // Bearer lifetime (default: 120s)
	SessionTTL   time.Duration // Cookie session lifetime (default: 168h)
	CookieSecure bool          // Mark the session cookie Secure (default: false)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("NOTES_ISSUER", "notes"),
		Audience:             splitList(getEnvOrDefault("NOTES_AUDIENCE", "notes-api")),
		NumKeys:              getEnvIntOrDefault("NOTES_NUM_KEYS", 2),
		KeyRotationInterval:  getEnvDurationOrDefault("NOTES_KEY_ROTATION_INTERVAL", 24*time.Hour),
		KeyGracePeriod:       getEnvDurationOrDefault("NOTES_KEY_GRACE_PERIOD", time.Hour),
		DatabaseFile:         getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		PepperFile:           getEnvOrDefault("NOTES_PEPPER_FILE", "pepper"),
		TokenTTL:             getEnvDurationOrDefault("NOTES_TOKEN_TTL", 120*time.Second),
		SessionTTL:           getEnvDurationOrDefault("NOTES_SESSION_TTL", 7*24*time.Hour),
		CookieSecure:         getEnvBoolOrDefault("NOTES_COOKIE_SECURE", false),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds, so NOTES_TOKEN_TTL=120 reads naturally.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
