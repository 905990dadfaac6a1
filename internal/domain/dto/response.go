package dto

import (
	"net/http"
	"time"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeInstallFailed indicates the precache manifest could not be stored.
	ErrCodeInstallFailed = "install_failed"
	// ErrCodeOffline indicates neither the network nor the cache could answer.
	ErrCodeOffline = "offline"
	// ErrCodePayloadTooLarge indicates the request body exceeded its limit.
	ErrCodePayloadTooLarge = "payload_too_large"
	// ErrCodeUpstreamTooLarge indicates the upstream response exceeded the body limit.
	ErrCodeUpstreamTooLarge = "upstream_too_large"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// NewSuccess wraps data in a SuccessResponse.
func NewSuccess(data interface{}, requestID string) SuccessResponse {
	return SuccessResponse{
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"tag: is required"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail adds a single detail entry to the error response.
func (e ErrorResponse) WithDetail(key, value string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusRequestEntityTooLarge:
		return ErrCodePayloadTooLarge
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// LifecycleResponse reports the worker state after install or activate.
// @Description Worker lifecycle state
type LifecycleResponse struct {
	State   string   `json:"state" example:"activated"`
	Version string   `json:"version" example:"vitaltrack-v1.0.0"`
	Deleted []string `json:"deleted,omitempty" example:"vitaltrack-v0.9.0"`
	Message string   `json:"message,omitempty" example:"Offline cache activated"`
} // @name LifecycleResponse

// VersionResponse is the reply to GET_VERSION.
// @Description Current cache version
type VersionResponse struct {
	Version string `json:"version" example:"vitaltrack-v1.0.0"`
} // @name VersionResponse

// NotificationResponse identifies a displayed notification.
// @Description Displayed notification id
type NotificationResponse struct {
	ID string `json:"id,omitempty" example:"9b2f7a3e-1a40-4c43-9d4e-3f0a9b8f1c11"`
	// Shown is false when the event tag is not handled.
	Shown bool `json:"shown"`
} // @name NotificationResponse

// SyncResponse reports whether a sync tag was handled.
// @Description Sync result
type SyncResponse struct {
	Tag     string `json:"tag" example:"health-data-backup"`
	Handled bool   `json:"handled"`
} // @name SyncResponse

// CachesResponse lists the named caches.
// @Description Cache names
type CachesResponse struct {
	Current string   `json:"current" example:"vitaltrack-v1.0.0"`
	Caches  []string `json:"caches" example:"vitaltrack-v1.0.0"`
} // @name CachesResponse
