package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/dto"
	"github.com/guttosm/vitaltrack-proxy/internal/i18n"
	"github.com/guttosm/vitaltrack-proxy/internal/logger"
)

// ErrorHandler returns a middleware that handles gin context errors.
// Errors attached by handlers that already answered are only logged; any
// other error becomes a translated 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)
		log := logger.Logger()

		event := log.Error()
		if c.Writer.Written() && c.Writer.Status() < http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("source", c.GetString(FetchSourceKey)).
			Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeInternal, message).
				WithRequestID(requestID)
			c.JSON(http.StatusInternalServerError, errorResp)
		}
	}
}
