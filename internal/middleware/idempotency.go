package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
	// IdempotencyReplayedHeader marks a response replayed from the idempotency cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
)

// cachedResponse stores a replayable HTTP response.
type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

// IdempotencyCache remembers responses to POST requests by idempotency key so
// a redelivered push or click is answered without showing a second notification.
type IdempotencyCache struct {
	mu       sync.RWMutex
	items    map[uint64]*cachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewIdempotencyCache creates a cache whose entries live for ttl.
func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	c := &IdempotencyCache{
		items:  make(map[uint64]*cachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

func (c *IdempotencyCache) get(key uint64) (*cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || time.Since(resp.Timestamp) > c.ttl {
		return nil, false
	}
	return resp, true
}

func (c *IdempotencyCache) set(key uint64, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp.Timestamp = time.Now()
	c.items[key] = resp
}

func (c *IdempotencyCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *IdempotencyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, resp := range c.items {
		if now.Sub(resp.Timestamp) > c.ttl {
			delete(c.items, key)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (c *IdempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Idempotency returns a middleware that replays the stored 2xx response for a
// POST carrying an Idempotency-Key it has already seen with the same body.
func Idempotency(cache *IdempotencyCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if cache == nil || key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey, err := generateCacheKey(key, c.Request)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		if cached, ok := cache.get(cacheKey); ok {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			cache.set(cacheKey, &cachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			})
		}
	}
}

// generateCacheKey hashes the idempotency key with the method, path and body,
// restoring the body for the handler.
func generateCacheKey(idempotencyKey string, req *http.Request) (uint64, error) {
	d := xxhash.New()
	_, _ = d.WriteString(idempotencyKey)
	_, _ = d.WriteString("\x00" + req.Method + "\x00" + req.URL.Path + "\x00")

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return 0, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		_, _ = d.Write(body)
	}
	return d.Sum64(), nil
}

// captureWriter tees the response body for caching.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
