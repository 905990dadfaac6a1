package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/logger"
)

// FetchSourceKey is the context key under which the proxy records where an
// intercepted response came from (cache, network, fallback, passthrough, error).
const FetchSourceKey = "fetch_source"

// SetFetchSource records the origin of an intercepted response for the request log.
func SetFetchSource(c *gin.Context, source string) {
	c.Set(FetchSourceKey, source)
}

// RequestLogger returns a middleware that logs HTTP request details in JSON format.
// It logs: request ID, method, path, status code, latency, IP, user agent and,
// for intercepted fetches, where the response came from.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		ctx := logger.Logger().With().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())
		if source := c.GetString(FetchSourceKey); source != "" {
			ctx = ctx.Str("source", source)
		}
		log := ctx.Logger()

		// Log level based on status code
		switch {
		case statusCode >= 500:
			log.Error().Msg("HTTP request")
		case statusCode >= 400:
			log.Warn().Msg("HTTP request")
		default:
			log.Info().Msg("HTTP request")
		}
	}
}
