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

// Storage backends for saved analyses.
const (
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var (
	ErrMissingAPIKey      = errors.New("GEMINI_API_KEY (or API_KEY) must be set")
	ErrUnknownStorage     = errors.New("unknown STORAGE_BACKEND")
	ErrMissingStorageURL  = errors.New("storage backend requires a connection URL")
	ErrSessionSecretShort = errors.New("SESSION_SECRET must be at least 32 characters")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Gemini
	APIKey string // env: GEMINI_API_KEY, falls back to API_KEY
	Model  string // env: GEMINI_MODEL, default: "gemini-2.5-flash"

	// Storage
	StorageBackend string // sqlite, redis, postgres or memory
	SQLitePath     string
	RedisURL       string // Also backs sessions when set
	DatabaseURL    string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC, login is only enforced when an issuer is configured
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for encrypting cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Requests per minute per client on the analyze endpoints
	RateLimitMax int

	// In-memory results are dropped after this long without activity
	WorkspaceIdleTTL time.Duration

	// Site Branding
	SiteTitle    string // env: SITE_TITLE, default: "Rank Check"
	SiteTagline  string // env: SITE_TAGLINE
	SiteFooter   string // env: SITE_FOOTER
	SiteGreeting string // env: SITE_GREETING, default: "" (no greeting line)
}

// LoadEnvFiles preloads .env.development, falling back to .env.
// Variables already set in the environment win.
func LoadEnvFiles() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		APIKey:           getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		Model:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQLite)),
		SQLitePath:       getEnv("SQLITE_PATH", "data/rankcheck.db"),
		RedisURL:         getEnv("REDIS_URL", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TLSEnabled:       getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:        getEnv("TLS_CA_FILE", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 10),
		WorkspaceIdleTTL: getEnvDuration("WORKSPACE_IDLE_TTL", 24*time.Hour),

		SiteTitle:    getEnv("SITE_TITLE", "Rank Check"),
		SiteTagline:  getEnv("SITE_TAGLINE", "See where your site ranks against the competition"),
		SiteFooter:   getEnv("SITE_FOOTER", "Rank Check - rankings are model estimates, not live search data"),
		SiteGreeting: getEnv("SITE_GREETING", ""),
	}
}

// Validate reports configuration that would prevent the server from working.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if len(c.SessionSecret) < 32 {
		return ErrSessionSecretShort
	}
	switch c.StorageBackend {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL", ErrMissingStorageURL)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingStorageURL)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.StorageBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsOIDCEnabled returns true when login is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}
