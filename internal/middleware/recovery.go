package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/dto"
	"github.com/guttosm/vitaltrack-proxy/internal/i18n"
	"github.com/guttosm/vitaltrack-proxy/internal/logger"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
)

// Recovery turns a handler panic into a 500 JSON error. When the panic
// happens after a proxied response has started streaming, the status is
// already on the wire, so the request is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log := logger.Logger()
			requestID := GetRequestID(c)

			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				log.Debug().Str("request_id", requestID).Str("path", c.Request.URL.Path).Msg("Client went away")
				c.Abort()
				return
			}

			log.Error().
				Str("request_id", requestID).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Bool("written", c.Writer.Written()).
				Interface("panic", rec).
				Msg("PANIC recovered")
			metrics.RecordHandlerError("http", "panic")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}()
		c.Next()
	}
}
