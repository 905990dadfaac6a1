package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, "http://localhost:3000", cfg.Proxy.UpstreamURL)
		assert.Equal(t, "vitaltrack-v1.0.0", cfg.Proxy.CacheName)
		assert.Nil(t, cfg.Proxy.PrecacheURLs)
		assert.Equal(t, "/", cfg.Proxy.RootPath)
		assert.True(t, cfg.Proxy.InstallOnStart)
		assert.Equal(t, 30*time.Second, cfg.Proxy.FetchTimeout)
		assert.Equal(t, int64(32<<20), cfg.Proxy.MaxBodyBytes)
		assert.Equal(t, 16, cfg.Proxy.CacheShards)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, "vitaltrack_proxy", cfg.Database.DatabaseName)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("UPSTREAM_URL", "https://vitaltrack.example")
		_ = os.Setenv("CACHE_NAME", "vitaltrack-v1.1.0")
		_ = os.Setenv("PRECACHE_URLS", "/,/index.html")
		_ = os.Setenv("INSTALL_ON_START", "false")
		_ = os.Setenv("FETCH_TIMEOUT", "5s")
		_ = os.Setenv("MONGODB_ENABLED", "true")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, "https://vitaltrack.example", cfg.Proxy.UpstreamURL)
		assert.Equal(t, "vitaltrack-v1.1.0", cfg.Proxy.CacheName)
		assert.Equal(t, []string{"/", "/index.html"}, cfg.Proxy.PrecacheURLs)
		assert.False(t, cfg.Proxy.InstallOnStart)
		assert.Equal(t, 5*time.Second, cfg.Proxy.FetchTimeout)
		assert.True(t, cfg.Database.Enabled)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("MONGODB_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	})

	t.Run("parses precache urls with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PRECACHE_URLS", " / , /manifest.json ,, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{"/", "/manifest.json"}, cfg.Proxy.PrecacheURLs)
	})

	t.Run("returns nil for blank precache urls", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PRECACHE_URLS", " , ")
		defer os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Proxy.PrecacheURLs)
	})

	t.Run("appends cors origins to local defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://vitaltrack.example")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"https://vitaltrack.example",
		}, cfg.Server.CORSOrigins)
	})
}
