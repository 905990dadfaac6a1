package dto

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_WithRequestID(t *testing.T) {
	err := NewError(ErrCodeInternal, "test error").WithRequestID("test-id")

	assert.Equal(t, "test-id", err.RequestID)
	assert.Equal(t, ErrCodeInternal, err.Error)
	assert.Equal(t, "test error", err.Message)
}

func TestErrorResponse_WithDetail(t *testing.T) {
	base := NewError(ErrCodeOffline, "offline").WithDetail("url", "/a")
	derived := base.WithDetail("cache", "vitaltrack-v1.0.0")

	assert.Equal(t, map[string]string{"url": "/a"}, base.Details, "receiver is not modified")
	assert.Equal(t, map[string]string{"url": "/a", "cache": "vitaltrack-v1.0.0"}, derived.Details)
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status       int
		expectedCode string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusBadGateway, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, ErrCodeFromStatus(tt.status))
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeInvalidRequest, "test message")

	assert.Equal(t, ErrCodeInvalidRequest, err.Error)
	assert.Equal(t, "test message", err.Message)
	assert.WithinDuration(t, time.Now(), err.Timestamp, time.Second)
}

func TestNewSuccess(t *testing.T) {
	resp := NewSuccess(VersionResponse{Version: "vitaltrack-v1.0.0"}, "req-1")

	assert.Equal(t, VersionResponse{Version: "vitaltrack-v1.0.0"}, resp.Data)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Second)
}
