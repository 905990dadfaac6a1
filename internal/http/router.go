package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
	"github.com/guttosm/vitaltrack-proxy/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
	// RateLimiter guards the control API. Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	// Idempotency replays control API responses by Idempotency-Key. Nil disables it.
	Idempotency *middleware.IdempotencyCache
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimiter: middleware.NewRateLimiter(100, time.Minute),
	}
}

// NewRouter creates the Gin router: infrastructure routes, the /sw control
// API and, for every other path, the fetch interception.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)

	registerInfrastructureRoutes(router, healthHandler, &cfg)

	sw := router.Group("/sw")
	configureControlMiddleware(sw, &cfg)
	handler.RegisterRoutes(sw)

	router.NoRoute(handler.Proxy)

	return router
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureControlMiddleware sets up middleware for the /sw group. Proxied
// traffic never passes through it: page loads must not be rate limited or
// have upstream encodings rewritten.
func configureControlMiddleware(sw *gin.RouterGroup, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	sw.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "accept", "Cache-Control", "X-Requested-With", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", middleware.IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// Preflights would otherwise fall through to the proxy.
	sw.OPTIONS("/*any", func(c *gin.Context) {})

	if cfg.RateLimiter != nil {
		sw.Use(cfg.RateLimiter.RateLimit())
	}
	sw.Use(middleware.Compression())
	if cfg.Idempotency != nil {
		sw.Use(middleware.Idempotency(cfg.Idempotency))
	}
}
