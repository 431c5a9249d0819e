package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Fetch  FetchConfig
	Cache  CacheConfig
	Log    LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls how target pages are downloaded.
type FetchConfig struct {
	// Timeout bounds a single page fetch, including reading the body.
	Timeout time.Duration // default: 30s

	// UserAgent is sent with every request.
	UserAgent string

	// FollowRedirects makes 3xx responses follow Location (max 10 hops).
	// When false a redirect is reported as a failed fetch.
	FollowRedirects bool // default: false

	// TLSFingerprint dials HTTPS with a Chrome ClientHello instead of Go's.
	TLSFingerprint bool // default: true
}

// CacheConfig controls the page cache.
type CacheConfig struct {
	// Backend selects the store: "memory" or "sqlite".
	Backend string // default: "memory"

	// Path is the SQLite database file (sqlite backend only).
	Path string // default: "pagefields.db"

	// MaxEntries caps the memory backend; 0 means unbounded.
	MaxEntries int // default: 1000

	// TTL expires cached pages; 0 keeps them until evicted externally.
	TTL time.Duration // default: 0
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PAGEFIELDS_HOST", "0.0.0.0"),
			Port: envIntOr("PAGEFIELDS_PORT", 8080),
			Mode: envOr("PAGEFIELDS_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:         envDurationOr("PAGEFIELDS_FETCH_TIMEOUT", 30*time.Second),
			UserAgent:       envOr("PAGEFIELDS_USER_AGENT", DefaultUserAgent),
			FollowRedirects: envBoolOr("PAGEFIELDS_FOLLOW_REDIRECTS", false),
			TLSFingerprint:  envBoolOr("PAGEFIELDS_TLS_FINGERPRINT", true),
		},
		Cache: CacheConfig{
			Backend:    envOr("PAGEFIELDS_CACHE_BACKEND", "memory"),
			Path:       envOr("PAGEFIELDS_CACHE_PATH", "pagefields.db"),
			MaxEntries: envIntOr("PAGEFIELDS_CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("PAGEFIELDS_CACHE_TTL", 0),
		},
		Log: LogConfig{
			Level:  envOr("PAGEFIELDS_LOG_LEVEL", "info"),
			Format: envOr("PAGEFIELDS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
