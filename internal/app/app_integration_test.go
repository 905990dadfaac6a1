//go:build integration

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp_Integration(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))

	cfg := config.Config{
		Server: config.ServerConfig{Port: "0"},
		Proxy: config.ProxyConfig{
			UpstreamURL:                    upstream.URL,
			CacheName:                      "vitaltrack-it",
			PrecacheURLs:                   []string{"/", "/index.html"},
			RootPath:                       "/",
			InstallOnStart:                 true,
			FetchTimeout:                   2 * time.Second,
			MaxBodyBytes:                   1 << 20,
			CacheShards:                    4,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 1,
			CircuitBreakerTimeout:          time.Second,
		},
		Database: config.DatabaseConfig{
			URI:                            getSharedContainerURI(),
			DatabaseName:                   sanitizeDBNameForApp(t.Name()),
			Enabled:                        true,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
	}

	a, err := InitializeApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.storage.DB.Database.Drop(context.Background())
		_ = a.Close(context.Background())
	})

	a.Start(context.Background())
	require.Equal(t, worker.StateActivated, a.Worker.State())

	upstream.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Sec-Fetch-Dest", "document")
	a.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html>/</html>", w.Body.String())

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongodb":"ok"`)
}
