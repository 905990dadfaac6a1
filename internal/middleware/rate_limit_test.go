//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rate, window)
	rl.now = clock.now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter_Burst(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for want := 2; want >= 0; want-- {
		allowed, remaining, _ := rl.take("10.0.0.1")
		assert.True(t, allowed)
		assert.Equal(t, want, remaining)
	}

	allowed, _, retryAfter := rl.take("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 20*time.Second, retryAfter)

	allowed, _, _ = rl.take("10.0.0.2")
	assert.True(t, allowed, "clients are limited independently")
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)

	rl.take("c")
	rl.take("c")
	allowed, _, _ := rl.take("c")
	assert.False(t, allowed)

	clock.advance(30 * time.Second)
	allowed, remaining, _ := rl.take("c")
	assert.True(t, allowed, "one token regained after half a window")
	assert.Zero(t, remaining)

	clock.advance(10 * time.Minute)
	_, remaining, _ = rl.take("c")
	assert.Equal(t, 1, remaining, "refill is capped at the burst size")
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(RequestID(), rl.RateLimit())
	router.POST("/sw/push", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sw/push", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_EvictFull(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)
	rl.Stop()

	rl.take("stale")
	clock.advance(30 * time.Second)
	rl.take("fresh")
	clock.advance(30 * time.Second)

	rl.evictFull()
	assert.Equal(t, 1, rl.clients())
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	defer rl.Stop()

	assert.Equal(t, 1.0, rl.rate)
	assert.Equal(t, time.Minute, rl.window)
}
