//go:build !integration

package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestHTTPFetcher_FetchSameOrigin(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index.html", r.URL.Path)
		assert.Empty(t, r.Header.Get("Connection"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>shell</html>"))
	}))
	defer upstream.Close()

	f := NewHTTPFetcher(mustParse(t, upstream.URL))
	req := model.NewRequest(http.MethodGet, "/index.html")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, model.ResponseTypeBasic, resp.Type)
	assert.Equal(t, "<html>shell</html>", string(resp.Body))
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, upstream.URL+"/index.html", resp.URL)
}

func TestHTTPFetcher_ClassifiesCrossOrigin(t *testing.T) {
	thirdParty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("font"))
	}))
	defer thirdParty.Close()

	f := NewHTTPFetcher(mustParse(t, "http://app.invalid"))

	tests := []struct {
		name     string
		mode     string
		expected model.ResponseType
	}{
		{name: "cors mode", mode: model.ModeCORS, expected: model.ResponseTypeCORS},
		{name: "no-cors mode", mode: model.ModeNoCORS, expected: model.ResponseTypeOpaque},
		{name: "no mode", mode: "", expected: model.ResponseTypeCORS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.NewRequest(http.MethodGet, thirdParty.URL+"/font.woff2")
			req.Mode = tt.mode

			resp, err := f.Fetch(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Type)
			assert.Equal(t, http.StatusOK, resp.Status)
		})
	}
}

func TestHTTPFetcher_NonOKIsNotAnError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	f := NewHTTPFetcher(mustParse(t, upstream.URL))
	resp, err := f.Fetch(context.Background(), model.NewRequest(http.MethodGet, "/missing"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestHTTPFetcher_NetworkFailure(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	origin := mustParse(t, upstream.URL)
	upstream.Close()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test-upstream",
	})
	f := NewHTTPFetcher(origin, WithCircuitBreaker(cb), WithClient(&http.Client{Timeout: time.Second}))

	_, err := f.Fetch(context.Background(), model.NewRequest(http.MethodGet, "/"))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, cb.IsOpen())

	_, err = f.Fetch(context.Background(), model.NewRequest(http.MethodGet, "/"))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorContains(t, err, circuitbreaker.ErrCircuitOpen.Error())
}

func TestHTTPFetcher_MaxBodyBytes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer upstream.Close()

	tests := []struct {
		name        string
		limit       int64
		expectedErr error
	}{
		{name: "body at the limit", limit: 10},
		{name: "body over the limit", limit: 4, expectedErr: ErrResponseTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewHTTPFetcher(mustParse(t, upstream.URL), WithMaxBodyBytes(tt.limit))
			resp, err := f.Fetch(context.Background(), model.NewRequest(http.MethodGet, "/"))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.NotErrorIs(t, err, ErrNetwork)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0123456789", string(resp.Body))
		})
	}
}

func TestHTTPFetcher_OversizedResponseDoesNotTripBreaker(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer upstream.Close()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "oversized-upstream",
	})
	f := NewHTTPFetcher(mustParse(t, upstream.URL), WithCircuitBreaker(cb), WithMaxBodyBytes(4))

	_, err := f.Fetch(context.Background(), model.NewRequest(http.MethodGet, "/"))
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.False(t, cb.IsOpen())
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "identical", a: "https://app.example", b: "https://app.example/x", expected: true},
		{name: "default port", a: "https://app.example", b: "https://app.example:443/", expected: true},
		{name: "case insensitive host", a: "https://APP.example", b: "https://app.example/", expected: true},
		{name: "different scheme", a: "http://app.example", b: "https://app.example/", expected: false},
		{name: "different host", a: "https://app.example", b: "https://fonts.googleapis.com/", expected: false},
		{name: "different port", a: "http://localhost:3000", b: "http://localhost:8080/", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SameOrigin(mustParse(t, tt.a), mustParse(t, tt.b)))
		})
	}
}

func TestStripHopHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "close")
	h.Set("Transfer-Encoding", "chunked")
	h.Set("Content-Type", "text/css")

	StripHopHeaders(h)

	assert.Empty(t, h.Get("Connection"))
	assert.Empty(t, h.Get("Transfer-Encoding"))
	assert.Equal(t, "text/css", h.Get("Content-Type"))
}
