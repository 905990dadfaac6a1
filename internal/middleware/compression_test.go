//go:build !integration

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name             string
		path             string
		acceptEncoding   string
		expectCompressed bool
	}{
		{name: "compresses when Accept-Encoding includes gzip", path: "/sw/caches", acceptEncoding: "gzip", expectCompressed: true},
		{name: "compresses when Accept-Encoding includes gzip, deflate", path: "/sw/caches", acceptEncoding: "gzip, deflate", expectCompressed: true},
		{name: "does not compress when no Accept-Encoding", path: "/sw/caches"},
		{name: "does not compress excluded paths", path: "/sw/version", acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Compression("/sw/version"))
			handler := func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"current": "vitaltrack-v1.0.0"})
			}
			router.GET("/sw/caches", handler)
			router.GET("/sw/version", handler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if !tt.expectCompressed {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.JSONEq(t, `{"current":"vitaltrack-v1.0.0"}`, w.Body.String())
				return
			}

			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			zr, err := gzip.NewReader(w.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.JSONEq(t, `{"current":"vitaltrack-v1.0.0"}`, string(body))
		})
	}
}
