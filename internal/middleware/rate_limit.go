package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/dto"
	"github.com/guttosm/vitaltrack-proxy/internal/i18n"
)

const rateLimiterShards = 16

// bucket is one client's token bucket.
type bucket struct {
	tokens float64
	last   time.Time
}

type bucketShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// RateLimiter is a per-IP token bucket for the control API. Each client may
// burst up to rate requests and regains rate tokens per window, so a page
// replaying queued push or sync events is smoothed rather than cut off for a
// whole window.
type RateLimiter struct {
	shards   [rateLimiterShards]*bucketShard
	rate     float64
	window   time.Duration
	perToken time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows rate requests per window per client IP.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		rate:     float64(rate),
		window:   window,
		perToken: window / time.Duration(rate),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i] = &bucketShard{buckets: make(map[string]*bucket)}
	}

	go rl.evictLoop()
	return rl
}

// take consumes a token for client. When none is left it reports how long
// until the next one.
func (rl *RateLimiter) take(client string) (allowed bool, remaining int, retryAfter time.Duration) {
	shard := rl.shards[xxhash.Sum64String(client)%rateLimiterShards]
	now := rl.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	b, ok := shard.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.rate, last: now}
		shard.buckets[client] = b
	}

	elapsed := now.Sub(b.last)
	b.tokens = math.Min(rl.rate, b.tokens+elapsed.Seconds()/rl.window.Seconds()*rl.rate)
	b.last = now

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return false, 0, time.Duration(missing * float64(rl.perToken))
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// RateLimit returns the gin middleware.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	limit := strconv.Itoa(int(rl.rate))
	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.take(c.ClientIP())

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		msg := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewError(dto.ErrCodeRateLimit, msg).WithRequestID(GetRequestID(c)))
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictFull()
		case <-rl.stopCh:
			return
		}
	}
}

// evictFull drops buckets that have refilled completely; they are
// indistinguishable from a new client.
func (rl *RateLimiter) evictFull() {
	now := rl.now()
	for _, shard := range rl.shards {
		shard.mu.Lock()
		for client, b := range shard.buckets {
			if now.Sub(b.last) >= rl.window {
				delete(shard.buckets, client)
			}
		}
		shard.mu.Unlock()
	}
}

func (rl *RateLimiter) clients() int {
	n := 0
	for _, shard := range rl.shards {
		shard.mu.Lock()
		n += len(shard.buckets)
		shard.mu.Unlock()
	}
	return n
}

// Stop ends the eviction goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}
