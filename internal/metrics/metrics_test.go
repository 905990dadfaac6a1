//go:build !integration

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPrometheusMiddleware_CollapsesUnroutedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "proxied")
	})

	before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "proxy", "200"))

	for _, path := range []string{"/a.css", "/b.js", "/icons/c.png"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	after := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "proxy", "200"))
	assert.Equal(t, float64(3), after-before)
}

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(FetchTotal.WithLabelValues("cache"))

	RecordFetch(5*time.Millisecond, "cache")
	RecordFetch(80*time.Millisecond, "network")

	assert.Equal(t, float64(1), testutil.ToFloat64(FetchTotal.WithLabelValues("cache"))-before)
}

func TestRecordCacheOperation(t *testing.T) {
	before := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("match", "hit"))

	RecordCacheOperation("match", "hit")
	RecordCacheOperation("match", "miss")
	RecordCacheOperation("put", "stored")

	assert.Equal(t, float64(1), testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("match", "hit"))-before)
}

func TestRecordLifecycleAndNotifications(t *testing.T) {
	RecordLifecycle("install", "success")
	RecordNotification("show", "health-reminder")
	RecordHandlerError("push", "panic")
	SetCircuitState("upstream", 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitState.WithLabelValues("upstream")))
}
