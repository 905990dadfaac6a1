// Package network performs the upstream half of an intercepted fetch.
package network

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
)

var (
	// ErrNetwork wraps every failure to obtain a response from the network.
	ErrNetwork = errors.New("network request failed")
	// ErrResponseTooLarge is returned when a response body exceeds the
	// configured limit. The upstream answered, so it is not an ErrNetwork.
	ErrResponseTooLarge = errors.New("response body too large")
)

// Fetcher performs a network request for an intercepted fetch.
type Fetcher interface {
	Fetch(ctx context.Context, req *model.Request) (*model.Response, error)
}

// hopHeaders are connection-level headers that must not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient sets the HTTP client used for upstream requests.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithCircuitBreaker routes upstream requests through cb.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(f *HTTPFetcher) {
		f.breaker = cb
	}
}

// WithMaxBodyBytes limits the size of a response body. Larger responses fail
// with ErrResponseTooLarge.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		f.maxBody = n
	}
}

// HTTPFetcher fetches resources with net/http and classifies responses
// relative to the application origin.
type HTTPFetcher struct {
	origin  *url.URL
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	maxBody int64
}

// NewHTTPFetcher creates a fetcher for the application served at origin.
func NewHTTPFetcher(origin *url.URL, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		origin:  origin,
		client:  &http.Client{Timeout: 30 * time.Second},
		maxBody: 32 << 20,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher. A response with any status is a successful fetch;
// only transport failures return an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *model.Request) (*model.Response, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if !target.IsAbs() {
		target = f.origin.ResolveReference(target)
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	copyHeader(httpReq.Header, req.Header)

	var (
		resp     *model.Response
		tooLarge bool
	)
	do := func() error {
		httpResp, err := f.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, f.maxBody+1))
		if err != nil {
			return err
		}
		if int64(len(data)) > f.maxBody {
			tooLarge = true
			return nil
		}
		header := make(http.Header, len(httpResp.Header))
		copyHeader(header, httpResp.Header)
		resp = &model.Response{
			URL:    target.String(),
			Status: httpResp.StatusCode,
			Header: header,
			Body:   data,
			Type:   f.classify(target, req.Mode),
		}
		return nil
	}

	if f.breaker != nil {
		err = f.breaker.Execute(ctx, do)
	} else {
		err = do()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, target.Redacted(), err)
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: %s %s: over %d bytes", ErrResponseTooLarge, req.Method, target.Redacted(), f.maxBody)
	}
	return resp, nil
}

// classify decides the response type the browser would have assigned.
func (f *HTTPFetcher) classify(target *url.URL, mode string) model.ResponseType {
	if SameOrigin(f.origin, target) {
		return model.ResponseTypeBasic
	}
	if mode == model.ModeNoCORS {
		return model.ResponseTypeOpaque
	}
	return model.ResponseTypeCORS
}

// SameOrigin reports whether a and b share scheme, host and port.
func SameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		if isHopHeader(k) {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// StripHopHeaders removes connection-level headers in place.
func StripHopHeaders(h http.Header) {
	for _, name := range hopHeaders {
		h.Del(name)
	}
}
