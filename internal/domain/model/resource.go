// Package model defines the core domain entities for the offline cache proxy.
package model

import (
	"net/http"
	"strings"
	"time"
)

// Request destinations reported by the browser in Sec-Fetch-Dest.
const (
	DestinationDocument = "document"
	DestinationEmpty    = "empty"
)

// Request modes reported by the browser in Sec-Fetch-Mode.
const (
	ModeNavigate   = "navigate"
	ModeCORS       = "cors"
	ModeNoCORS     = "no-cors"
	ModeSameOrigin = "same-origin"
)

// ResponseType classifies how much of a response the caching layer may inspect.
type ResponseType string

const (
	// ResponseTypeBasic is a same-origin response with fully inspectable headers and body.
	ResponseTypeBasic ResponseType = "basic"
	// ResponseTypeCORS is a cross-origin response obtained in cors mode.
	ResponseTypeCORS ResponseType = "cors"
	// ResponseTypeOpaque is a cross-origin response obtained in no-cors mode.
	ResponseTypeOpaque ResponseType = "opaque"
	// ResponseTypeError is a network error response.
	ResponseTypeError ResponseType = "error"
)

// Request is an outgoing resource request intercepted from a controlled page.
type Request struct {
	Method      string
	URL         string
	Header      http.Header
	Body        []byte
	Destination string
	Mode        string
}

// NewRequest creates a GET-style request for the given absolute URL.
func NewRequest(method, url string) *Request {
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method: strings.ToUpper(method),
		URL:    url,
		Header: make(http.Header),
	}
}

// Key returns the cache identity of the request (method + URL).
func (r *Request) Key() string {
	return RequestKey(r.Method, r.URL)
}

// IsNavigation reports whether the request loads a top-level document.
func (r *Request) IsNavigation() bool {
	return r.Destination == DestinationDocument
}

// RequestKey builds the cache identity for a method and absolute URL.
func RequestKey(method, url string) string {
	if method == "" {
		method = http.MethodGet
	}
	return strings.ToUpper(method) + " " + url
}

// Response is a full response payload as held by a named cache.
//
// @Description Cached or fetched resource response
type Response struct {
	URL      string       `json:"url"`
	Status   int          `json:"status" example:"200"`
	Header   http.Header  `json:"header,omitempty"`
	Body     []byte       `json:"-"`
	Type     ResponseType `json:"type" example:"basic"`
	StoredAt time.Time    `json:"stored_at,omitempty"`
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Cacheable reports whether the response may be stored by the fetch fallback:
// a 200 basic response.
func (r *Response) Cacheable() bool {
	return r != nil && r.Status == http.StatusOK && r.Type == ResponseTypeBasic
}

// Clone returns a deep copy; one copy can be persisted while the other is returned.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := *r
	c.Header = r.Header.Clone()
	if r.Body != nil {
		c.Body = make([]byte, len(r.Body))
		copy(c.Body, r.Body)
	}
	return &c
}
