package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/screfinery/screfinery/pkg/scope"
)

// DefaultScopes is what a fresh account may do when nothing is configured.
const defaultScopesFallback = "user.read friendship.* mining_session.* ore.read station.read method.read"

type Config struct {
	Issuer        string        // Issuer claim for access tokens (default: screfinery)
	AccessTTL     time.Duration // Access token lifetime (default: 1h)
	DatabaseFile  string        // Path to SQLite database file (default: ./screfinery.db)
	PepperFile    string        // Path to password pepper file (default: ./pepper)
	JWTSecretFile string        // Path to HS256 secret file (default: ./jwt_secret)

	// DefaultScopes are granted to accounts created without an explicit scope
	// set. Space-delimited in SCREF_DEFAULT_SCOPES; every entry must parse.
	DefaultScopes []string

	CORSOrigins    []string // Allowed CORS origins, comma-delimited (default: none, CORS disabled)
	GoogleClientID string   // Optional: enables POST /v1/login/google when set

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment once at process start.
// A malformed default scope is a hard startup error, never a request-time one.
func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:              getEnvOrDefault("SCREF_ISSUER", "screfinery"),
		AccessTTL:           getEnvDurationOrDefault("SCREF_ACCESS_TTL", time.Hour),
		DatabaseFile:        getEnvOrDefault("SCREF_DATABASE_FILE", "screfinery.db"),
		PepperFile:          getEnvOrDefault("SCREF_PEPPER_FILE", "pepper"),
		JWTSecretFile:       getEnvOrDefault("SCREF_JWT_SECRET_FILE", "jwt_secret"),
		GoogleClientID:      os.Getenv("SCREF_GOOGLE_CLIENT_ID"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	rawScopes := getEnvOrDefault("SCREF_DEFAULT_SCOPES", defaultScopesFallback)
	cfg.DefaultScopes = strings.Fields(rawScopes)
	if _, err := scope.ParseSet(cfg.DefaultScopes); err != nil {
		return Config{}, fmt.Errorf("SCREF_DEFAULT_SCOPES: %w", err)
	}

	if origins := os.Getenv("SCREF_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
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
