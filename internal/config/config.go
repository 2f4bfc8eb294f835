// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backend selectors for GEOCODE_CACHE.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheOff    = "off"
)

// Config holds all service settings, populated from environment
// variables.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Geocoder configuration.
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	GeocodeCache      string
	GeocodeCacheSize  int
	GeocodeCacheTTL   time.Duration
	RedisAddr         string
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("GEOCODE_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitAndTrim(envOrDefault("CORS_ORIGINS", "*")),

		GeocoderBaseURL:   envOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: envOrDefault("GEOCODER_USER_AGENT", "restaurant-directory/1.0"),
		GeocoderTimeout:   geocoderTimeout,
		GeocodeCache:      envOrDefault("GEOCODE_CACHE", CacheMemory),
		GeocodeCacheSize:  cacheSize,
		GeocodeCacheTTL:   cacheTTL,
		RedisAddr:         envOrDefault("REDIS_ADDR", "localhost:6379"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	switch cfg.GeocodeCache {
	case CacheMemory, CacheRedis, CacheOff:
	default:
		return nil, fmt.Errorf("GEOCODE_CACHE must be %s, %s, or %s", CacheMemory, CacheRedis, CacheOff)
	}
	if cfg.GeocoderUserAgent == "" {
		return nil, errors.New("GEOCODER_USER_AGENT must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
