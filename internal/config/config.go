package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// BuildBaseURL is the backend address baked in at build time:
//
//	go build -ldflags "-X github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/config.BuildBaseURL=https://api.example.com/api"
var BuildBaseURL string

// FallbackBaseURL is used when nothing else configures the backend address.
const FallbackBaseURL = "http://localhost:3000/api"

// Session store kinds.
const (
	SessionStoreFile   = "file"
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Backend address inputs, see ResolveBaseURL
	APIBaseURL     string
	PublicHost     string
	PublicOrigin   string
	ProductionHost string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxConcurrency int
	BreakerTimeout time.Duration

	// Session persistence
	SessionStore string
	SessionFile  string
	SessionKey   string
	RedisURL     string
	RedisPrefix  string

	// Shell
	PreviewTTL     time.Duration
	NoticeCapacity int

	// Observability
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:     getEnv("API_BASE_URL", ""),
		PublicHost:     getEnv("PUBLIC_HOST", ""),
		PublicOrigin:   getEnv("PUBLIC_ORIGIN", ""),
		ProductionHost: getEnv("PRODUCTION_HOST", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 12),
		BreakerTimeout: getEnvDuration("BREAKER_TIMEOUT", 10*time.Second),

		SessionStore: strings.ToLower(getEnv("SESSION_STORE", SessionStoreFile)),
		SessionFile:  getEnv("SESSION_FILE", ".session/state.json"),
		SessionKey:   getEnv("SESSION_KEY", "auth_token"),
		RedisURL:     getEnv("REDIS_URL", ""),
		RedisPrefix:  getEnv("REDIS_PREFIX", "vitoriacestas:"),

		PreviewTTL:     getEnvDuration("PREVIEW_TTL", 30*time.Minute),
		NoticeCapacity: getEnvInt("NOTICE_CAPACITY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "vitoriacestas-shell"),
	}
}

// Validate rejects combinations the shell cannot start with.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required when SESSION_STORE=%s", SessionStoreFile)
		}
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=%s", SessionStoreRedis)
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

// ResolveBaseURL picks the backend address once, in order: explicit
// API_BASE_URL, the build-time BuildBaseURL, the public origin's /api when
// running on the production host, then FallbackBaseURL.
func (c *Config) ResolveBaseURL() string {
	if v := strings.TrimSpace(c.APIBaseURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(BuildBaseURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	if c.ProductionHost != "" && strings.EqualFold(c.PublicHost, c.ProductionHost) {
		origin := strings.TrimRight(c.PublicOrigin, "/")
		if origin == "" {
			origin = "https://" + c.PublicHost
		}
		return origin + "/api"
	}
	return FallbackBaseURL
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
