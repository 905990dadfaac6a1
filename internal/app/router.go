package app

import (
	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/http"
	"github.com/guttosm/vitaltrack-proxy/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(proxy *ProxyComponents, storage *StorageComponents, cfg config.Config) *RouterComponents {
	handler := http.NewHandler(
		proxy.Worker,
		proxy.Notifications,
		proxy.Clients,
		storage.Storage,
		http.WithMaxBodyBytes(cfg.Proxy.MaxBodyBytes),
	)

	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterInformationalBreaker("upstream", proxy.UpstreamBreaker)
	healthHandler.RegisterStatus("worker", func() string { return proxy.Worker.State().String() })
	if storage.DB != nil {
		healthHandler.RegisterChecker("mongodb", storage.DB)
	}
	if storage.CircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("mongodb_caches", storage.CircuitBreaker)
	}

	routerCfg := http.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		SwaggerUser: cfg.Server.SwaggerUser,
		SwaggerPass: cfg.Server.SwaggerPass,
		Idempotency: middleware.NewIdempotencyCache(middleware.IdempotencyKeyTTL),
	}
	if cfg.Server.RateLimit > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

// Stop releases the background goroutines of the router middleware.
func (r *RouterComponents) Stop() {
	if r.Config.RateLimiter != nil {
		r.Config.RateLimiter.Stop()
	}
	if r.Config.Idempotency != nil {
		r.Config.Idempotency.Stop()
	}
}
