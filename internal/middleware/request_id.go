// Package middleware provides HTTP middleware components for the offline cache proxy.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id to the client and to the upstream.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds ids accepted from clients so they stay safe to log
// and to forward upstream.
const maxRequestIDLen = 128

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestID assigns every request an id. A well-formed X-Request-ID from the
// client is kept; anything else is replaced with a UUID v4. The id is written
// back onto the inbound request so proxied fetches forward it upstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Request.Header.Set(RequestIDHeader, id)
		c.Set(string(requestIDKey), id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(string(requestIDKey))
	s, _ := id.(string)
	return s
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		b := id[i]
		if b < 0x21 || b > 0x7e {
			return false
		}
	}
	return true
}
