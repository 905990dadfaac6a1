// Package config provides configuration management for the offline cache proxy.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Proxy    ProxyConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
}

// ProxyConfig holds the offline cache proxy configuration.
type ProxyConfig struct {
	// UpstreamURL is the origin the proxied application is served from.
	UpstreamURL string
	// CacheName is the cache version; changing it retires every other cache on activate.
	CacheName string
	// PrecacheURLs overrides the default precache manifest when set.
	PrecacheURLs []string
	RootPath     string
	// InstallOnStart runs install and activate before the server starts accepting traffic.
	InstallOnStart bool
	FetchTimeout   time.Duration
	MaxBodyBytes   int64
	CacheShards    int
	// Circuit breaker for upstream fetches
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser: getEnv("SWAGGER_USER", ""),
			SwaggerPass: getEnv("SWAGGER_PASS", ""),
		},
		Proxy: ProxyConfig{
			UpstreamURL:                    getEnv("UPSTREAM_URL", "http://localhost:3000"),
			CacheName:                      getEnv("CACHE_NAME", "vitaltrack-v1.0.0"),
			PrecacheURLs:                   parseList(os.Getenv("PRECACHE_URLS")),
			RootPath:                       getEnv("ROOT_PATH", "/"),
			InstallOnStart:                 getEnvBool("INSTALL_ON_START", true),
			FetchTimeout:                   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			MaxBodyBytes:                   int64(getEnvInt("MAX_BODY_BYTES", 32<<20)),
			CacheShards:                    getEnvInt("CACHE_SHARDS", 16),
			CircuitBreakerFailureThreshold: getEnvInt("UPSTREAM_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("UPSTREAM_CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 1),
			CircuitBreakerTimeout:          getEnvDuration("UPSTREAM_CIRCUIT_BREAKER_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "vitaltrack_proxy"),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseList splits a comma-separated list, dropping blanks. Empty input yields nil.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	return append(defaults, parseList(s)...)
}
