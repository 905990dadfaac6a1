// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the worker,
// providing validation and serialization for API communication.
package dto

import "strings"

// MessageRequest is a control message posted by the hosting page.
//
// @Description Control message for the offline cache proxy
// @Example {"type": "GET_VERSION"}
type MessageRequest struct {
	// Type is SKIP_WAITING or GET_VERSION. Other types are accepted and ignored.
	Type string `json:"type" example:"GET_VERSION"`
} // @name MessageRequest

// TagRequest names the tag of a sync or periodic sync event.
//
// @Description Sync event tag
type TagRequest struct {
	Tag string `json:"tag" example:"daily-health-reminder"`
} // @name TagRequest

// ClickRequest carries the action chosen on a notification.
// An empty action is a click on the notification body.
//
// @Description Notification click
type ClickRequest struct {
	Action string `json:"action" example:"open"`
} // @name ClickRequest

// RegisterClientRequest registers a page loaded by the browser.
//
// @Description Window client registration
type RegisterClientRequest struct {
	URL string `json:"url" example:"/"`
} // @name RegisterClientRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrMissingMessageType is returned when a message has no type.
	ErrMissingMessageType = &ValidationError{Field: "type", Message: "is required"}
	// ErrMissingTag is returned when a sync request has no tag.
	ErrMissingTag = &ValidationError{Field: "tag", Message: "is required"}
	// ErrMissingURL is returned when a client registration has no url.
	ErrMissingURL = &ValidationError{Field: "url", Message: "is required"}
)

// Validate checks that the message names a type.
func (r *MessageRequest) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return ErrMissingMessageType
	}
	return nil
}

// Validate checks that a tag is present.
func (r *TagRequest) Validate() error {
	if strings.TrimSpace(r.Tag) == "" {
		return ErrMissingTag
	}
	return nil
}

// Validate checks that a url is present.
func (r *RegisterClientRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrMissingURL
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
