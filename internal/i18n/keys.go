// Package i18n provides internationalization support for the offline cache proxy.
package i18n

// Error message keys.
const (
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	// ErrKeyInstallFailed: the precache manifest could not be stored.
	ErrKeyInstallFailed = "error.install_failed"
	// ErrKeyNotInstalled: activation was requested before install succeeded.
	ErrKeyNotInstalled = "error.not_installed"
	// ErrKeyOffline: the upstream is unreachable and nothing is cached.
	ErrKeyOffline               = "error.offline"
	ErrKeyPayloadTooLarge       = "error.payload_too_large"
	ErrKeyUpstreamTooLarge      = "error.upstream_too_large"
	ErrKeyNotificationNotFound  = "error.notification_not_found"
	ErrKeyValidationTag         = "error.validation.tag"
	ErrKeyValidationMessageType = "error.validation.message_type"
	ErrKeyValidationURL         = "error.validation.url"
)

// Success message keys.
const (
	SuccessKeyInstalled       = "success.installed"
	SuccessKeyActivated       = "success.activated"
	SuccessKeyMessageAccepted = "success.message_accepted"
)
